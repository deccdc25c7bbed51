package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"VanityGrind/internal/keystore"
	"VanityGrind/internal/ops/encdec"
	"VanityGrind/pkg/logx"

	"github.com/spf13/cobra"
)

func (r *Runner) loadCommand() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load SECRET_KEY from the dotenv file and print its public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := keystore.LoadEnv(envFile)
			if err != nil {
				return err
			}
			logx.S().Infow("keypair loaded", "file", envFile, "address", kp.Address())
			fmt.Fprintf(r.out, r.msg.Loaded, kp.Address())
			return nil
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", r.cfg.EnvFile, "Dotenv file holding SECRET_KEY")
	return cmd
}

func (r *Runner) encryptCommand() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt SECRET_KEY from the dotenv file into a keystore file",
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := r.readNewPassword()
			if err != nil {
				return err
			}
			hint := r.prompt(r.msg.HintPrompt)

			ctx, stop := withInterrupt(cmd.Context())
			defer stop()
			path, err := encdec.EncryptEnv(ctx, encdec.EncryptOptions{
				EnvFile:              envFile,
				LogsBase:             r.cfg.LogsDir,
				Password:             pwd,
				PassHint:             hint,
				HideSecretsInConsole: r.cfg.HideSecretsInConsole,
				ScryptN:              r.scryptN,
				ScryptP:              r.scryptP,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(r.out, r.msg.Encrypted, envFile, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", r.cfg.EnvFile, "Dotenv file holding SECRET_KEY")
	return cmd
}

func (r *Runner) decryptCommand() *cobra.Command {
	var input, restore string
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt keystore files back to raw secrets",
		RunE: func(cmd *cobra.Command, args []string) error {
			pwd, err := r.readPassword(r.msg.PasswordPrompt)
			if err != nil {
				return err
			}

			ctx, stop := withInterrupt(cmd.Context())
			defer stop()
			dir, err := encdec.DecryptKeystores(ctx, encdec.DecryptOptions{
				Input:                input,
				LogsBase:             r.cfg.LogsDir,
				Password:             pwd,
				RestoreEnv:           restore,
				HideSecretsInConsole: r.cfg.HideSecretsInConsole,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(r.out, r.msg.Decrypted, countLines(dir), dir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "inputs/decrypt", "Keystore file or directory")
	cmd.Flags().StringVar(&restore, "restore-env", "", "Write the key to this dotenv file when exactly one decrypts")
	return cmd
}

// countLines reports how many keys DecryptKeystores wrote into all.txt.
func countLines(dir string) int {
	f, err := os.Open(filepath.Join(dir, "all.txt"))
	if err != nil {
		return 0
	}
	defer f.Close()
	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
	}
	return n
}
