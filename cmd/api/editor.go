package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/booknotes/internal/domain/editor"
	"github.com/xiebiao/booknotes/internal/infrastructure/persistence/mysql"
)

var (
	editorUsername string
	editorPassword string
)

var editorCmd = &cobra.Command{
	Use:   "editor",
	Short: "Manage the editor credentials",
}

var editorSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create the editor or reset its password",
	Long: `Store the editor username and a bcrypt hash of the password.

Examples:
  booknotes editor set --username admin --password 's3cret'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if editorUsername == "" || editorPassword == "" {
			return errors.New("--username and --password are required")
		}

		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, err := mysql.NewDB(cfg, log)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		// only the credential store is touched; no session backend needed
		gate := editor.NewGate(mysql.NewEditorRepository(db), nil, nil, cfg.Session.TTL, log)
		if err := gate.EnsureEditor(cmd.Context(), editorUsername, editorPassword); err != nil {
			return err
		}
		log.Info("editor credentials stored", zap.String("username", editor.NormalizeUsername(editorUsername)))
		return nil
	},
}

func init() {
	editorSetCmd.Flags().StringVar(&editorUsername, "username", "", "editor username")
	editorSetCmd.Flags().StringVar(&editorPassword, "password", "", "editor password")
	editorCmd.AddCommand(editorSetCmd)
}
