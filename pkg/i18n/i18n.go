package i18n

type Messages struct {
	AppShort         string
	SearchStarting   string
	Found            string
	FoundAddress     string
	FoundElapsed     string
	FoundAttempts    string
	FoundRate        string
	SavedEnv         string
	SavedKeystore    string
	SavedRunDir      string
	Cancelled        string
	Loaded           string
	PasswordPrompt   string
	PasswordConfirm  string
	PasswordMismatch string
	HintPrompt       string
	Encrypted        string
	Decrypted        string
}

// Get returns the messages for lang, English when it is unknown.
func Get(lang string) Messages {
	switch lang {
	case "ru":
		return Messages{
			AppShort:         "Параллельный поиск vanity-адресов Solana",
			SearchStarting:   "Поиск префикса %q, потоков: %d\n",
			Found:            "Найдено совпадение!",
			FoundAddress:     "Публичный ключ: %s\n",
			FoundElapsed:     "Время поиска: %s\n",
			FoundAttempts:    "Попыток: %d\n",
			FoundRate:        "Скорость: %.2f ключей/сек\n",
			SavedEnv:         "Секрет записан в %s\n",
			SavedKeystore:    "Keystore записан в %s\n",
			SavedRunDir:      "Логи запуска: %s\n",
			Cancelled:        "Поиск остановлен.",
			Loaded:           "Загружен публичный ключ: %s\n",
			PasswordPrompt:   "Пароль keystore: ",
			PasswordConfirm:  "Повторите пароль: ",
			PasswordMismatch: "пароли не совпадают",
			HintPrompt:       "Подсказка к паролю (необязательно): ",
			Encrypted:        "Зашифровано: %s -> %s\n",
			Decrypted:        "Расшифровано ключей: %d, результат: %s\n",
		}
	default: // "en"
		return Messages{
			AppShort:         "Parallel Solana vanity address search",
			SearchStarting:   "Searching for prefix %q with %d workers\n",
			Found:            "Found match!",
			FoundAddress:     "Public Key: %s\n",
			FoundElapsed:     "Keypair generation took: %s\n",
			FoundAttempts:    "Attempts: %d\n",
			FoundRate:        "Rate: %.2f keys/sec\n",
			SavedEnv:         "Secret written to %s\n",
			SavedKeystore:    "Keystore written to %s\n",
			SavedRunDir:      "Run logs: %s\n",
			Cancelled:        "Search stopped.",
			Loaded:           "Loaded pubkey: %s\n",
			PasswordPrompt:   "Keystore password: ",
			PasswordConfirm:  "Repeat password: ",
			PasswordMismatch: "passwords do not match",
			HintPrompt:       "Optional password hint (saved to hint.txt): ",
			Encrypted:        "Encrypted %s -> %s\n",
			Decrypted:        "Decrypted %d keys into %s\n",
		}
	}
}
