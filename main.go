package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"expense-approval-backend/config"
	"expense-approval-backend/db"
	"expense-approval-backend/initializers"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "expense-approval-backend",
	Short: "Сервис согласования заявок на возмещение расходов",
	// без подкоманды запускается http сервер
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedManagerCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Gracefully shutting down...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		log.WithError(err).Error("ошибка выполнения команды")
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запуск HTTP сервера",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции БД и выйти",
		RunE: func(cmd *cobra.Command, args []string) error {
			initializers.InitLogger()
			config.InitConfig()
			initializers.InitDBConnection(false)
			return db.AutoMigrateDB()
		},
	}
}

func seedManagerCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "seed-manager",
		Short: "Создать или обновить учетную запись руководителя",
		RunE: func(cmd *cobra.Command, args []string) error {
			initializers.InitLogger()
			config.InitConfig()
			if email != "" {
				config.Conf.Manager.Email = email
			}
			if password != "" {
				config.Conf.Manager.Password = password
			}
			initializers.InitDBConnection(*config.Conf.Database.MigrateOnStart)
			initializers.InitS3(cmd.Context())
			initializers.InitHandlers()
			initializers.SeedManager()
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "e-mail руководителя (по умолчанию MANAGER_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "пароль руководителя (по умолчанию MANAGER_PASSWORD)")
	return cmd
}
