package usecase_test

import (
	"context"
	"testing"

	"loja/internal/config"
	"loja/internal/domain/model"
	repo "loja/internal/repository"
	"loja/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret"}
}

func TestAuthUsecase_Register_MissingFields(t *testing.T) {
	uc := usecase.NewAuthUsecase(testConfig(), new(UserRepoMock))

	_, err := uc.Register(context.Background(), usecase.RegisterInput{Nome: "Ana", Email: "", Senha: "secret1"})
	assertErrContains(t, err, "obrigatórios")
}

func TestAuthUsecase_Register_ShortPassword(t *testing.T) {
	uc := usecase.NewAuthUsecase(testConfig(), new(UserRepoMock))

	_, err := uc.Register(context.Background(), usecase.RegisterInput{Nome: "Ana", Email: "ana@loja.com", Senha: "123"})
	assertErrContains(t, err, "pelo menos 6")
}

func TestAuthUsecase_Register_HashesPassword(t *testing.T) {
	users := new(UserRepoMock)

	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		// 平文が保存されないこと
		if u.Senha == "secret1" {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(u.Senha), []byte("secret1")) == nil
	})).Return(model.User{ID: 1, Nome: "Ana", Email: "ana@loja.com"}, nil)

	uc := usecase.NewAuthUsecase(testConfig(), users)

	out, err := uc.Register(context.Background(), usecase.RegisterInput{
		Nome:  "Ana",
		Email: "Ana@Loja.com",
		Senha: "secret1",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)

	users.AssertExpectations(t)
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	users := new(UserRepoMock)

	users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, repo.ErrDuplicateEmail)

	uc := usecase.NewAuthUsecase(testConfig(), users)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Nome:  "Ana",
		Email: "ana@loja.com",
		Senha: "secret1",
	})
	assertErrContains(t, err, "já cadastrado")
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	users := new(UserRepoMock)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	users.On("FindByEmail", mock.Anything, "ana@loja.com").Return(model.User{
		ID:    1,
		Email: "ana@loja.com",
		Senha: string(hash),
	}, nil)

	uc := usecase.NewAuthUsecase(testConfig(), users)

	_, err := uc.Login(context.Background(), usecase.LoginInput{Email: "ana@loja.com", Senha: "errada"})
	assertErrContains(t, err, "email ou senha inválidos")
}

// 未知のemailも同じメッセージ（有無を漏らさない）
func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	users := new(UserRepoMock)

	users.On("FindByEmail", mock.Anything, "x@loja.com").Return(model.User{}, repo.ErrNotFound)

	uc := usecase.NewAuthUsecase(testConfig(), users)

	_, err := uc.Login(context.Background(), usecase.LoginInput{Email: "x@loja.com", Senha: "secret1"})
	assertErrContains(t, err, "email ou senha inválidos")
}

func TestAuthUsecase_Login_Success_IssuesToken(t *testing.T) {
	users := new(UserRepoMock)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	users.On("FindByEmail", mock.Anything, "ana@loja.com").Return(model.User{
		ID:    1,
		Email: "ana@loja.com",
		Senha: string(hash),
	}, nil)

	uc := usecase.NewAuthUsecase(testConfig(), users)

	out, err := uc.Login(context.Background(), usecase.LoginInput{Email: "ana@loja.com", Senha: "secret1"})
	assert.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Greater(t, out.ExpiresIn, 0)
	assert.Equal(t, int64(1), out.Usuario.ID)
}
