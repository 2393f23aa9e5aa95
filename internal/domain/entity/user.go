package entity

// UserState is the operator's position in the bot dialog.
type UserState string

const (
	StateMainMenu            UserState = "main_menu"             // in the main menu
	StateAwaitingMoldingID   UserState = "awaiting_molding_id"   // waiting for a molding batch id
	StateAwaitingPackagingID UserState = "awaiting_packaging_id" // waiting for a packaging batch id
	StateAwaitingFullRunID   UserState = "awaiting_full_run_id"  // waiting for a full-process batch id
	StateAwaitingBatchCount  UserState = "awaiting_batch_count"  // waiting for a simulation count
)

// User represents a bot operator.
type User struct {
	ID     int64     // Telegram User ID
	ChatID int64     // Telegram Chat ID
	State  UserState // current dialog state
}

// NewUser creates an operator in the initial state.
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState updates the operator's dialog state.
func (u *User) SetState(state UserState) {
	u.State = state
}
