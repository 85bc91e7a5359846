package session

import "encoding/json"

// AuthRecord - единственная запись, которую клиент хранит в защищенном
// хранилище (ключ "auth"). Отсутствие записи эквивалентно пустой структуре.
// Тикет сбрасывается сразу же, как только проверка показала его
// недействительность; логин и пароль нужны для любого перевыпуска тикета.
type AuthRecord struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Ticket   string `json:"ticket,omitempty"`
}

// HasCredentials сообщает, достаточно ли данных для перевыпуска тикета
func (r *AuthRecord) HasCredentials() bool {
	return r.Username != "" && r.Password != ""
}

// Marshal сериализует запись для защищенного хранилища
func (r *AuthRecord) Marshal() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// UnmarshalAuthRecord восстанавливает запись из хранилища.
// Пустая строка означает отсутствие записи и дает пустую структуру.
func UnmarshalAuthRecord(value string) (*AuthRecord, error) {
	rec := &AuthRecord{}
	if value == "" {
		return rec, nil
	}
	if err := json.Unmarshal([]byte(value), rec); err != nil {
		return nil, err
	}
	return rec, nil
}
