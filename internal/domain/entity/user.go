package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu       UserState = "main_menu"       // В главном меню
	StateAwaitingKey    UserState = "awaiting_key"    // Ожидание эталонного листа
	StateAwaitingSheets UserState = "awaiting_sheets" // Ожидание листов студентов
)

// User представляет пользователя бота
type User struct {
	ID        int64           // Telegram User ID
	ChatID    int64           // Telegram Chat ID
	State     UserState       // Текущее состояние пользователя
	Key       *Metadata       // Ключ ответов текущей сессии
	SessionID string          // Идентификатор сессии проверки
	Results   []GradingResult // Результаты проверенных листов
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// StartSession начинает новую сессию проверки с ключом ответов
func (u *User) StartSession(sessionID string, key *Metadata) {
	u.SessionID = sessionID
	u.Key = key
	u.Results = nil
}

// AddResult добавляет результат проверенного листа
func (u *User) AddResult(r GradingResult) {
	u.Results = append(u.Results, r)
}
