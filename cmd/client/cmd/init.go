// cmd/client/cmd/init.go
package cmd

import (
	"alfup/cmd/client/cmd/auth"
	"alfup/cmd/client/cmd/upload"
)

func init() {
	// Добавляем команды аутентификации
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.StatusCmd)

	// Добавляем команду загрузки файлов
	rootCmd.AddCommand(upload.UploadCmd)
}
