// cmd/client/cmd/auth/login.go
package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"alfup/cmd/client/cmd/types"
	"alfup/internal/app/client"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в репозиторий Alfresco",
	Long: `Аутентификация в репозитории Alfresco.

Учетные данные и выданный тикет сохраняются в зашифрованном хранилище,
истекший тикет в дальнейшем перевыпускается автоматически.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		fmt.Println("=== Вход в репозиторий ===")
		fmt.Println()

		// Подставляем имя пользователя от прошлого входа, если осталось
		var defaultUser string
		if rec, err := app.Current(cmd.Context()); err == nil && rec.Username != "" {
			defaultUser = rec.Username
			fmt.Printf("Пользователь [%s]: ", defaultUser)
		} else {
			fmt.Print("Пользователь: ")
		}

		var username string
		_, _ = fmt.Scanln(&username)
		if username == "" {
			username = defaultUser
		}
		if username == "" {
			return fmt.Errorf("имя пользователя не задано")
		}

		// Запрашиваем пароль
		fmt.Print("Пароль: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения пароля: %w", err)
		}
		fmt.Println()

		fmt.Println("Аутентификация...")
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Login(ctx, username, string(password)); err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}

		fmt.Println()
		fmt.Println("✅ Вход выполнен успешно!")

		return nil
	},
}
