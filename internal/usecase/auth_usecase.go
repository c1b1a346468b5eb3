package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"loja/internal/config"
	"loja/internal/domain/model"
	repo "loja/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = 24 * time.Hour

type AuthUsecase struct {
	cfg   config.Config
	users repo.UserRepository
}

func NewAuthUsecase(cfg config.Config, users repo.UserRepository) *AuthUsecase {
	return &AuthUsecase{cfg: cfg, users: users}
}

type RegisterInput struct {
	Nome     string
	Email    string
	Senha    string
	Telefone string
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Nome = strings.TrimSpace(in.Nome)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Nome == "" || in.Email == "" || in.Senha == "" {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "nome, email e senha são obrigatórios")
	}
	if len(in.Senha) < 6 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "a senha deve ter pelo menos 6 caracteres")
	}

	// パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Senha), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, NewInternalError("erro interno", err)
	}

	user, err := u.users.Create(ctx, model.User{
		Nome:     in.Nome,
		Email:    in.Email,
		Senha:    string(pwHash),
		Telefone: in.Telefone,
	})
	if err == repo.ErrDuplicateEmail {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "email já cadastrado")
	}
	if err != nil {
		return model.User{}, NewInternalError("db error", err)
	}
	return user, nil
}

type LoginInput struct {
	Email string
	Senha string
}

type LoginOutput struct {
	Token     string     `json:"token"`
	ExpiresIn int        `json:"expiresIn"`
	Usuario   model.User `json:"usuario"`
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Senha == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "email e senha são obrigatórios")
	}

	user, err := u.users.FindByEmail(ctx, in.Email)
	if err == repo.ErrNotFound {
		// ユーザー有無は漏らさない
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "email ou senha inválidos")
	}
	if err != nil {
		return LoginOutput{}, NewInternalError("db error", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Senha), []byte(in.Senha)); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "email ou senha inválidos")
	}

	token, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return LoginOutput{}, NewInternalError("erro interno", err)
	}

	return LoginOutput{Token: token, ExpiresIn: expiresIn, Usuario: user}, nil
}

func (u *AuthUsecase) GetUser(ctx context.Context, id int64) (model.User, error) {
	if id <= 0 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	user, err := u.users.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.User{}, NewHTTPError(http.StatusNotFound, "usuário não encontrado")
	}
	if err != nil {
		return model.User{}, NewInternalError("db error", err)
	}
	return user, nil
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(user model.User) (string, int, error) {
	now := time.Now()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub": user.ID,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}

	return signed, int(accessTokenTTL.Seconds()), nil
}
