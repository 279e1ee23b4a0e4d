package repos

import (
	"bizdir/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByPhone(phone string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,name,phone,password_hash FROM users WHERE phone=?`, phone)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,name,phone,password_hash FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(u domain.User) error {
	_, err := r.DB.Exec(`INSERT INTO users(id,name,phone,password_hash) VALUES(?,?,?,?)`,
		u.ID, u.Name, u.Phone, u.Hash)
	return err
}
