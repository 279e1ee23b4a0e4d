package domain

type User struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Phone string `db:"phone"`
	Hash  string `db:"password_hash"`
}
