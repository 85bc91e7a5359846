package types

// CtxKey - тип ключей контекста команд
type CtxKey string

// ClientAppKey - ключ, под которым собранное приложение кладется
// в контекст команды
const ClientAppKey CtxKey = "client_app"
