// cmd/client/cmd/auth/status.go
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"alfup/cmd/client/cmd/types"
	"alfup/internal/app/client"
)

var checkServer bool

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Показать состояние сессии",
	Long: `Вывод сохраненной сессии: пользователь и наличие тикета.
С флагом --check тикет дополнительно проверяется на сервере
и при необходимости перевыпускается.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		rec, err := app.Current(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка чтения сессии: %w", err)
		}

		if rec.Username == "" && rec.Ticket == "" {
			color.Yellow("Сессии нет. Выполните: alfup auth login")
			return nil
		}

		fmt.Printf("Пользователь: %s\n", rec.Username)
		if rec.Ticket != "" {
			fmt.Println("Тикет:        сохранен")
		} else {
			fmt.Println("Тикет:        отсутствует")
		}

		if !checkServer {
			return nil
		}

		fmt.Println()
		fmt.Println("Проверка тикета на сервере...")
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		ok, err := app.EnsureValidTicket(ctx)
		if err != nil {
			return fmt.Errorf("ошибка проверки тикета: %w", err)
		}

		if ok {
			color.Green("✓ Тикет действителен")
		} else {
			color.Red("✗ Тикет недействителен, требуется вход: alfup auth login")
		}

		return nil
	},
}

func init() {
	StatusCmd.Flags().BoolVarP(&checkServer, "check", "c", false, "проверить тикет на сервере")
}
