package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/satriohadi/sewateman/internal"
	"github.com/satriohadi/sewateman/internal/user"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"log/slog"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

type mockUserRepo struct {
	users  map[string]*user.User
	hashes map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  make(map[string]*user.User),
		hashes: make(map[string]string),
	}
}

func (m *mockUserRepo) addUser(id int64, email, password, role string, active bool) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.users[email] = &user.User{ID: id, Email: email, Role: role, IsActive: active, Name: "Test User"}
	m.hashes[email] = string(hash)
}

func (m *mockUserRepo) GetByEmail(email string) (*user.User, string, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, "", errors.New("record not found")
	}
	return u, m.hashes[email], nil
}

func (m *mockUserRepo) GetByID(id int64) (*user.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

var _ = ginkgo.Describe("Auth Service", func() {
	var (
		repo    *mockUserRepo
		tokens  *JWTTokenGenerator
		service *Service
	)

	ginkgo.BeforeEach(func() {
		repo = newMockUserRepo()
		tokens = &JWTTokenGenerator{
			AccessTokenSecret:  []byte("test-access-secret-0123456789abcdef"),
			RefreshTokenSecret: []byte("test-refresh-secret-0123456789abcdef"),
			AccessTokenTTL:     15 * time.Minute,
			RefreshTokenTTL:    72 * time.Hour,
		}
		service = NewService(repo, tokens, slog.Default())

		repo.addUser(3, "rina@mail.com", "rahasia", user.RoleRenter, true)
		repo.addUser(4, "nonaktif@mail.com", "rahasia", user.RoleRenter, false)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.It("should issue both tokens for valid credentials", func() {
			authTokens, err := service.Authenticate(LoginDTO{Email: "rina@mail.com", Password: "rahasia"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(authTokens.AccessToken).NotTo(gomega.BeEmpty())
			gomega.Expect(authTokens.RefreshToken).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("should reject a wrong password", func() {
			_, err := service.Authenticate(LoginDTO{Email: "rina@mail.com", Password: "salah"})
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
		})

		ginkgo.It("should reject an unknown email with the same error as a bad password", func() {
			_, err := service.Authenticate(LoginDTO{Email: "ghost@mail.com", Password: "rahasia"})
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
		})

		ginkgo.It("should reject an inactive account", func() {
			_, err := service.Authenticate(LoginDTO{Email: "nonaktif@mail.com", Password: "rahasia"})
			gomega.Expect(err).To(gomega.Equal(internal.ErrUserInactive))
		})
	})

	ginkgo.Describe("ValidateAccessToken", func() {
		ginkgo.It("should resolve the current user from a valid token", func() {
			authTokens, err := service.Authenticate(LoginDTO{Email: "rina@mail.com", Password: "rahasia"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			u, err := service.ValidateAccessToken(authTokens.AccessToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(u.ID).To(gomega.Equal(int64(3)))
			gomega.Expect(u.Role).To(gomega.Equal(user.RoleRenter))
		})

		ginkgo.It("should reject garbage tokens", func() {
			_, err := service.ValidateAccessToken("not.a.token")
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
		})

		ginkgo.It("should reject a refresh token used as an access token", func() {
			authTokens, err := service.Authenticate(LoginDTO{Email: "rina@mail.com", Password: "rahasia"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(authTokens.RefreshToken)
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
		})

		ginkgo.It("should cut off users deactivated after the token was issued", func() {
			authTokens, err := service.Authenticate(LoginDTO{Email: "rina@mail.com", Password: "rahasia"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			repo.users["rina@mail.com"].IsActive = false

			_, err = service.ValidateAccessToken(authTokens.AccessToken)
			gomega.Expect(err).To(gomega.Equal(internal.ErrUserInactive))
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should issue a fresh pair from a valid refresh token", func() {
			authTokens, err := service.Authenticate(LoginDTO{Email: "rina@mail.com", Password: "rahasia"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			refreshed, err := service.RefreshTokens(authTokens.RefreshToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(refreshed.AccessToken).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("should reject an access token used as a refresh token", func() {
			authTokens, err := service.Authenticate(LoginDTO{Email: "rina@mail.com", Password: "rahasia"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.RefreshTokens(authTokens.AccessToken)
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
		})
	})
})
