// cmd/client/cmd/upload/upload.go
package upload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"alfup/cmd/client/cmd/types"
	"alfup/internal/app/client"
	"alfup/internal/domain/upload"
)

var UploadCmd = &cobra.Command{
	Use:   "upload <файл>",
	Short: "Загрузить файл в репозиторий",
	Long: `Загрузка файла в корневую папку пользователя в репозитории Alfresco.

Сначала создается пустой узел с именем файла, затем в него
заливается содержимое. Требуется действующая сессия.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		path := args[0]

		fmt.Printf("Загрузка %s...\n", path)
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		nodeID, err := app.UploadFile(ctx, path)
		if err != nil {
			if errors.Is(err, upload.ErrAuthRequired) {
				return fmt.Errorf("требуется вход: alfup auth login")
			}
			return fmt.Errorf("ошибка загрузки: %w", err)
		}

		fmt.Println()
		fmt.Println("✅ Файл загружен")
		fmt.Printf("Узел: %s\n", nodeID)

		return nil
	},
}
