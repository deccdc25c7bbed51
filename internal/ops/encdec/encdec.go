package encdec

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"VanityGrind/internal/crypto"
	"VanityGrind/internal/keystore"
	"VanityGrind/internal/logsink"
	"VanityGrind/pkg/logx"
)

// EncryptOptions controls encryption job behaviour.
type EncryptOptions struct {
	EnvFile              string // dotenv file holding SECRET_KEY
	LogsBase             string // e.g. "logs"
	Password             string // required
	PassHint             string // optional text stored near logs for future reference
	HideSecretsInConsole bool   // if true, do not print private keys to console logs
	ScryptN, ScryptP     int    // 0 means keystore.Standard*
}

// DecryptOptions controls decryption job behaviour.
type DecryptOptions struct {
	Input                string // keystore file, or a dir with all.jsonl, *.json, files/*.json
	LogsBase             string // e.g. "logs"
	Password             string // required
	RestoreEnv           string // if set and exactly one key decrypts, write it to this dotenv file
	HideSecretsInConsole bool
}

// EncryptEnv reads SECRET_KEY from opt.EnvFile and encrypts it with a password. Results:
//
//	logs/encrypt/<DD.MM.YYYY>/encrypt_keystore_<HH-MM-SS>/app.log
//	logs/encrypt/.../all.jsonl (one keystore JSON per line)
//	logs/encrypt/.../files/<address>.json
//
// It returns the path of the per-wallet keystore file.
func EncryptEnv(ctx context.Context, opt EncryptOptions) (string, error) {
	const module = "encrypt"

	if opt.Password == "" {
		return "", errors.New("empty password")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := logsink.MakeModuleDirs(opt.LogsBase, module, true)
	if err != nil {
		return "", err
	}
	// optional hint for the operator
	_ = logsink.WriteHint(dir, opt.PassHint)

	logPath := filepath.Join(dir, "app.log")
	if err := logx.Init(logx.Config{Level: "info", FilePath: logPath, ConsoleOnly: false, HideSecretsInConsole: opt.HideSecretsInConsole}); err != nil {
		return "", fmt.Errorf("logx init failed: %w", err)
	}
	defer logx.Close()
	app := logx.S()

	app.Infow("encrypt started", "inputs", opt.EnvFile, "out", dir)
	start := time.Now()

	kp, err := keystore.LoadEnv(opt.EnvFile)
	if err != nil {
		return "", err
	}

	n, p := scryptParams(opt.ScryptN, opt.ScryptP)
	blob, err := keystore.EncryptKeypair(kp, opt.Password, n, p)
	if err != nil {
		app.Errorw("keystore encrypt failed", "addr", kp.Address(), "err", err)
		return "", err
	}

	if err := logsink.WriteMatch(dir, "all", json.RawMessage(blob), true); err != nil {
		return "", fmt.Errorf("append jsonl: %w", err)
	}
	perWallet := filepath.Join(dir, "files", kp.Address()+".json")
	if err := keystore.WriteKeyFile(perWallet, blob); err != nil {
		return "", fmt.Errorf("write single keystore: %w", err)
	}

	if !opt.HideSecretsInConsole {
		app.Infow("ENCRYPTED", "address", kp.Address(), "private_key", kp.SecretBase58())
	} else {
		app.Infow("ENCRYPTED", "address", kp.Address())
	}
	app.Infow("encrypt finished", "file", perWallet, "elapsed", time.Since(start).String())
	return perWallet, nil
}

// DecryptKeystores decrypts every keystore found at opt.Input and writes
// "address:secret_base58" lines into logs/decrypt/.../all.txt, followed by
// ":mnemonic" for keys that carry one.
// It returns the run directory.
func DecryptKeystores(ctx context.Context, opt DecryptOptions) (string, error) {
	const module = "decrypt"

	dir, err := logsink.MakeModuleDirs(opt.LogsBase, module, false)
	if err != nil {
		return "", err
	}
	logPath := filepath.Join(dir, "app.log")
	if err := logx.Init(logx.Config{Level: "info", FilePath: logPath, ConsoleOnly: false, HideSecretsInConsole: opt.HideSecretsInConsole}); err != nil {
		return "", fmt.Errorf("logx init failed: %w", err)
	}
	defer logx.Close()
	app := logx.S()

	outAll := filepath.Join(dir, "all.txt")
	outF, err := logsink.OpenAppend(outAll)
	if err != nil {
		return "", fmt.Errorf("create all.txt: %w", err)
	}
	defer outF.Close()

	files := collectInputFiles(opt.Input)
	if len(files) == 0 {
		app.Warnw("no keystore files found", "input", opt.Input)
		return dir, nil
	}

	app.Infow("decrypt started", "inputs", opt.Input, "out", dir, "files", len(files))

	var total, okCnt, failCnt int
	var decrypted []crypto.Keypair
	start := time.Now()

	handle := func(src string, blob []byte) {
		total++
		kp, mn, derr := keystore.DecryptWithMnemonic(blob, opt.Password)
		if derr != nil {
			failCnt++
			app.Errorw("decrypt failed", "file", src, "err", derr)
			return
		}
		okCnt++
		decrypted = append(decrypted, kp)
		line := kp.Address() + ":" + kp.SecretBase58()
		if mn != "" {
			line += ":" + mn
		}
		_, _ = fmt.Fprintln(outF, line)
		if !opt.HideSecretsInConsole {
			app.Infow("DECRYPTED", "address", kp.Address(), "private_key", kp.SecretBase58(), "mnemonic", mn)
		} else {
			app.Infow("DECRYPTED", "address", kp.Address())
		}
	}

	for _, p := range files {
		select {
		case <-ctx.Done():
			return dir, ctx.Err()
		default:
		}

		if strings.HasSuffix(p, ".jsonl") {
			f, err := os.Open(p)
			if err != nil {
				app.Errorw("open jsonl failed", "file", p, "err", err)
				continue
			}
			sc := bufio.NewScanner(f)
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				if line == "" {
					continue
				}
				handle(p, []byte(line))
			}
			_ = f.Close()
			if err := sc.Err(); err != nil {
				app.Errorw("scan jsonl failed", "file", p, "err", err)
			}
			continue
		}

		blob, err := os.ReadFile(p)
		if err != nil {
			app.Errorw("read json failed", "file", p, "err", err)
			continue
		}
		handle(p, blob)
	}

	if opt.RestoreEnv != "" {
		if len(decrypted) == 1 {
			if err := keystore.WriteEnv(opt.RestoreEnv, decrypted[0]); err != nil {
				return dir, err
			}
			app.Infow("restored env", "file", opt.RestoreEnv, "address", decrypted[0].Address())
		} else {
			app.Warnw("env not restored: need exactly one decrypted key", "decrypted", len(decrypted))
		}
	}

	app.Infow("decrypt finished", "total", total, "ok", okCnt, "failed", failCnt, "elapsed", time.Since(start).String())
	if okCnt == 0 && failCnt > 0 {
		return dir, fmt.Errorf("decrypt: all %d keystores failed", failCnt)
	}
	return dir, nil
}

func scryptParams(n, p int) (int, int) {
	if n <= 0 || p <= 0 {
		return keystore.StandardScryptN, keystore.StandardScryptP
	}
	return n, p
}

func collectInputFiles(input string) []string {
	st, err := os.Stat(input)
	if err != nil {
		return nil
	}
	if !st.IsDir() {
		return []string{input}
	}

	var files []string
	allJSONL := filepath.Join(input, "all.jsonl")
	if st, err := os.Stat(allJSONL); err == nil && !st.IsDir() {
		files = append(files, allJSONL)
	}
	entries, _ := os.ReadDir(input)
	for _, de := range entries {
		if de.IsDir() {
			// support <input>/files/*.json
			if de.Name() == "files" {
				sub := filepath.Join(input, "files")
				subEntries, _ := os.ReadDir(sub)
				for _, se := range subEntries {
					if !se.IsDir() && strings.HasSuffix(se.Name(), ".json") {
						files = append(files, filepath.Join(sub, se.Name()))
					}
				}
			}
			continue
		}
		if strings.HasSuffix(de.Name(), ".json") {
			files = append(files, filepath.Join(input, de.Name()))
		}
	}
	return files
}
