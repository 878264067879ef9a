package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock UserRepository for testing
type mockUserRepository struct {
	passwords     map[string]string // username -> password hash
	userIDs       map[string]int64  // username -> userID
	usersByID     map[int64]*User
	returnError   bool
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	return &mockUserRepository{
		passwords: map[string]string{
			"worker": string(hashedPassword),
			"owner":  string(hashedPassword),
			"admin":  string(hashedPassword),
		},
		userIDs: map[string]int64{
			"worker": 1,
			"owner":  2,
			"admin":  3,
		},
		usersByID: map[int64]*User{
			1: {ID: 1, Username: "worker", Email: "worker@mail.com"},
			2: {ID: 2, Username: "owner", Email: "owner@mail.com"},
			3: {ID: 3, Username: "admin", Email: "admin@mail.com", IsStaff: true},
		},
	}
}

func (m *mockUserRepository) GetPasswordForUsername(username string) (string, int64, error) {
	if m.returnError {
		return "", 0, m.errorToReturn
	}

	if hash, exists := m.passwords[username]; exists {
		if userID, userExists := m.userIDs[username]; userExists {
			return hash, userID, nil
		}
	}
	return "", 0, errors.New("user not found")
}

func (m *mockUserRepository) GetUser(userID int64) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}

	if user, exists := m.usersByID[userID]; exists {
		return user, nil
	}
	return nil, errors.New("user not found")
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service       *Service
		mockRepo      *mockUserRepository
		tokenGen      *JWTTokenGenerator
		accessSecret  string        = "test-access-secret"
		refreshSecret string        = "test-refresh-secret"
		accessTTL     time.Duration = 15 * time.Minute
		refreshTTL    time.Duration = 24 * time.Hour
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator(accessSecret, refreshSecret, accessTTL, refreshTTL)
		service = NewService(mockRepo, tokenGen)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens", func() {
				dto := LoginDTO{
					Username: "worker",
					Password: "correct_password",
				}

				tokens, err := service.Authenticate(dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
			})

			ginkgo.It("should embed the identity in the access token", func() {
				dto := LoginDTO{
					Username: "worker",
					Password: "correct_password",
				}

				tokens, err := service.Authenticate(dto)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal(int64(1)))
				gomega.Expect(claims.Username).To(gomega.Equal("worker"))
			})
		})

		ginkgo.Context("when the password is wrong", func() {
			ginkgo.It("should return invalid credentials", func() {
				dto := LoginDTO{
					Username: "worker",
					Password: "wrong_password",
				}

				_, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
			})
		})

		ginkgo.Context("when the username is unknown", func() {
			ginkgo.It("should return the same invalid credentials error", func() {
				dto := LoginDTO{
					Username: "nobody",
					Password: "correct_password",
				}

				_, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
			})
		})

		ginkgo.Context("when fields are missing", func() {
			ginkgo.It("should reject an empty username", func() {
				_, err := service.Authenticate(LoginDTO{Password: "correct_password"})
				gomega.Expect(err).To(gomega.HaveOccurred())
			})

			ginkgo.It("should reject an empty password", func() {
				_, err := service.Authenticate(LoginDTO{Username: "worker"})
				gomega.Expect(err).To(gomega.HaveOccurred())
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should issue fresh tokens for a valid refresh token", func() {
			tokens, err := service.Authenticate(LoginDTO{Username: "owner", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshed.AccessToken).ToNot(gomega.BeEmpty())

			claims, err := service.ValidateAccessToken(refreshed.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal(int64(2)))
		})

		ginkgo.It("should reject a garbage token", func() {
			_, err := service.RefreshTokens("not.a.token")
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		})

		ginkgo.It("should reject an expired token", func() {
			expiredGen := &JWTTokenGenerator{
				AccessTokenSecret:  []byte(accessSecret),
				RefreshTokenSecret: []byte(refreshSecret),
				AccessTokenTTL:     -time.Minute,
				RefreshTokenTTL:    -time.Minute,
			}
			token, err := expiredGen.GenerateRefreshToken(1, "worker")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.RefreshTokens(token)
			gomega.Expect(err).To(gomega.MatchError(ErrTokenExpired))
		})
	})

	ginkgo.Describe("GetUser", func() {
		ginkgo.It("should load the principal with its staff flag", func() {
			u, err := service.GetUser(3)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.IsStaff).To(gomega.BeTrue())
		})
	})
})
