package entity

// Account is a row in the `accounts` table. SecretHash is never serialized
// to JSON.
type Account struct {
	ID          string `db:"id" json:"id"`
	Identity    string `db:"identity" json:"identity"`
	SecretHash  string `db:"secret_hash" json:"-"`
	BearerToken string `db:"bearer_token" json:"bearerToken"`
	// CreatedAt is unix milliseconds.
	CreatedAt int64 `db:"created_at" json:"createdAt"`
}
