package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"VanityGrind/internal/generator"
	"VanityGrind/internal/keystore"
	"VanityGrind/internal/logsink"
	"VanityGrind/pkg/config"
	"VanityGrind/pkg/logx"

	"github.com/spf13/cobra"
)

var errPrefixRequired = errors.New("prefix required: pass --prefix (--prefix= accepts any address) or --config")

type grindFlags struct {
	configPath string
	prefix     string
	source     string
	words      int
	passphrase string
	encrypt    bool
	timeout    time.Duration
	workers    int
	envFile    string
	noEnv      bool
	progress   time.Duration
}

type foundRecord struct {
	Address    string          `json:"address"`
	PrivateKey string          `json:"private_key,omitempty"`
	Keystore   json.RawMessage `json:"keystore,omitempty"`
	Mnemonic   string          `json:"mnemonic,omitempty"`
	Elapsed    string          `json:"elapsed"`
	Attempts   uint64          `json:"attempts"`
	Worker     int             `json:"worker"`
}

func (r *Runner) grindCommand() *cobra.Command {
	f := &grindFlags{}
	cmd := &cobra.Command{
		Use:   "grind",
		Short: "Search for a keypair whose address starts with a prefix",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.handleGrind(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "Search profile (yaml); flags override it")
	fl.StringVarP(&f.prefix, "prefix", "p", "", "Address prefix to match (base58, case-sensitive)")
	fl.StringVarP(&f.source, "source", "s", string(generator.SourcePrivKey), "Key source: private|mnemonics")
	fl.IntVar(&f.words, "words", 12, "Mnemonic length (12 or 24), mnemonics source only")
	fl.StringVar(&f.passphrase, "passphrase", "", "BIP-39 passphrase, mnemonics source only")
	fl.BoolVarP(&f.encrypt, "encrypt", "e", false, "Store the key in an encrypted keystore instead of .env")
	fl.DurationVarP(&f.timeout, "timeout", "t", 0, "Give up after this long (0 = never)")
	fl.IntVarP(&f.workers, "workers", "w", r.cfg.Cores, "Number of worker goroutines (0 = all CPUs)")
	fl.StringVar(&f.envFile, "env-file", r.cfg.EnvFile, "Dotenv file receiving SECRET_KEY")
	fl.BoolVar(&f.noEnv, "no-env", false, "Do not write the secret to the dotenv file")
	fl.DurationVar(&f.progress, "progress-interval", 10*time.Second, "Progress log interval (negative disables)")
	return cmd
}

// searchConfig merges the optional profile with explicitly set flags.
func (f *grindFlags) searchConfig(cmd *cobra.Command) (*config.SearchConfig, error) {
	sc := &config.SearchConfig{}
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		sc = loaded
	}
	fl := cmd.Flags()
	// an empty prefix matches any address and overwrites .env: require it explicitly
	if f.configPath == "" && !fl.Changed("prefix") {
		return nil, errPrefixRequired
	}
	if fl.Changed("prefix") || f.configPath == "" {
		sc.Prefix = f.prefix
	}
	if fl.Changed("source") || sc.Source == "" {
		sc.Source = f.source
	}
	if fl.Changed("words") || sc.Words == 0 {
		sc.Words = f.words
	}
	if fl.Changed("passphrase") {
		sc.Passphrase = f.passphrase
	}
	if fl.Changed("encrypt") {
		sc.Encrypt = f.encrypt
	}
	if fl.Changed("timeout") {
		sc.Timeout = f.timeout
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (r *Runner) handleGrind(cmd *cobra.Command, f *grindFlags) error {
	sc, err := f.searchConfig(cmd)
	if err != nil {
		return err
	}

	var pwd, hint string
	if sc.Encrypt {
		if pwd, err = r.readNewPassword(); err != nil {
			return err
		}
		hint = r.prompt(r.msg.HintPrompt)
	}

	// logs/grind/<DD.MM.YYYY>/<grind_<HH-MM-SS>>
	dir, err := logsink.MakeModuleDirs(r.cfg.LogsDir, "grind", sc.Encrypt)
	if err != nil {
		return err
	}
	_ = logsink.WriteHint(dir, hint)

	if err := logx.Init(logx.Config{
		Level:                r.cfg.LogLevel,
		FilePath:             filepath.Join(dir, "app.log"),
		HideSecretsInConsole: r.cfg.HideSecretsInConsole,
	}); err != nil {
		return fmt.Errorf("logx init for grind failed: %w", err)
	}
	defer logx.Close()

	workers := f.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	fmt.Fprintf(r.out, r.msg.SearchStarting, sc.Prefix, workers)

	ctx, stop := withInterrupt(cmd.Context())
	defer stop()

	res, err := generator.Run(ctx, generator.Options{
		Prefix:           sc.Prefix,
		Source:           generator.Source(sc.Source),
		WordsStrength:    sc.WordsStrength(),
		Passphrase:       sc.Passphrase,
		Workers:          workers,
		Timeout:          sc.Timeout,
		ProgressInterval: f.progress,
	})
	if errors.Is(err, generator.ErrSearchCancelled) {
		fmt.Fprintln(r.out, r.msg.Cancelled)
		return err
	}
	if err != nil {
		return err
	}

	r.report(res)
	envFile := f.envFile
	if f.noEnv || sc.Encrypt {
		envFile = ""
	}
	if err := r.persist(dir, res, pwd, envFile); err != nil {
		return err
	}
	fmt.Fprintf(r.out, r.msg.SavedRunDir, dir)
	return nil
}

func (r *Runner) report(res *generator.Result) {
	rate := 0.0
	if res.Elapsed.Seconds() > 0 {
		rate = float64(res.Attempts) / res.Elapsed.Seconds()
	}
	fmt.Fprintln(r.out, r.msg.Found)
	fmt.Fprintf(r.out, r.msg.FoundAddress, res.Address)
	fmt.Fprintf(r.out, r.msg.FoundElapsed, res.Elapsed)
	fmt.Fprintf(r.out, r.msg.FoundAttempts, res.Attempts)
	fmt.Fprintf(r.out, r.msg.FoundRate, rate)
}

// persist writes the discovered key into the run directory and, when
// envFile is set, into the dotenv file. A non-empty password switches
// every on-disk copy to keystore V3, with the mnemonic sealed next to the seed.
func (r *Runner) persist(dir string, res *generator.Result, password, envFile string) error {
	app := logx.S()
	rec := foundRecord{
		Address:  res.Address,
		Elapsed:  generator.HumanDuration(res.Elapsed),
		Attempts: res.Attempts,
		Worker:   res.Worker,
	}

	var keyFile []byte
	if password != "" {
		blob, err := keystore.EncryptWithMnemonic(res.Keypair, res.Mnemonic, password, r.scryptN, r.scryptP)
		if err != nil {
			return err
		}
		rec.Keystore = blob
		keyFile = blob
	} else {
		blob, err := res.Keypair.KeygenJSON()
		if err != nil {
			return err
		}
		rec.PrivateKey = res.Keypair.SecretBase58()
		rec.Mnemonic = res.Mnemonic
		keyFile = blob
	}

	if err := logsink.WriteMatch(dir, "found", rec, true); err != nil {
		app.Errorw("jsonl append failed", "addr", res.Address, "err", err)
	}
	keyPath := filepath.Join(dir, "files", res.Address+".json")
	if err := keystore.WriteKeyFile(keyPath, keyFile); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	if password != "" {
		fmt.Fprintf(r.out, r.msg.SavedKeystore, keyPath)
	}

	if envFile != "" {
		if err := keystore.WriteEnv(envFile, res.Keypair); err != nil {
			return err
		}
		fmt.Fprintf(r.out, r.msg.SavedEnv, envFile)
	}

	if password == "" {
		app.Infow("FOUND",
			"address", res.Address,
			"attempts", res.Attempts,
			"elapsed", generator.HumanDuration(res.Elapsed),
			"private_key", rec.PrivateKey,
			"mnemonic", res.Mnemonic,
		)
	} else {
		app.Infow("FOUND",
			"address", res.Address,
			"attempts", res.Attempts,
			"elapsed", generator.HumanDuration(res.Elapsed),
			"keystore", keyPath,
			"mnemonic_sealed", res.Mnemonic != "",
		)
	}
	return nil
}
