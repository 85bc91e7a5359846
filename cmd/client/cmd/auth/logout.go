// cmd/client/cmd/auth/logout.go
package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"alfup/cmd/client/cmd/types"
	"alfup/internal/app/client"
)

var clearAll bool

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти из репозитория",
	Long: `Завершение сессии. По умолчанию имя пользователя остается
в хранилище и подставляется при следующем входе; с флагом --all
запись удаляется целиком.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		if err := app.Logout(cmd.Context(), clearAll); err != nil {
			return fmt.Errorf("ошибка выхода: %w", err)
		}

		if clearAll {
			fmt.Println("✅ Выход выполнен, учетные данные удалены")
		} else {
			fmt.Println("✅ Выход выполнен")
		}

		return nil
	},
}

func init() {
	LogoutCmd.Flags().BoolVarP(&clearAll, "all", "a", false, "удалить сохраненные учетные данные целиком")
}
