package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdobak/go-xerrors"
	"golang.org/x/crypto/bcrypt"

	"socialnet/internal/web"
)

const (
	AccountCtxKey = "account_data"

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	NotAuthenticatedAccount = xerrors.Message("not authenticated account")
	InvalidToken            = xerrors.Message("invalid token")
)

// Auth mints and verifies the bearer token pair and tracks the
// authenticated account for the lifetime of a request.
type Auth struct {
	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func New(secret string, accessTokenTTL, refreshTokenTTL time.Duration) *Auth {
	return &Auth{
		secret:          []byte(secret),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

func (account *Account) SetPassword(plainTextPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), 12)
	if err != nil {
		return xerrors.New(err)
	}

	account.Password = hashedPassword
	return nil
}

func (account *Account) IsPasswordMatch(plainTextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(account.Password, []byte(plainTextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, xerrors.New(err)
	}

	return true, nil
}

// GenerateTokenPair mints the access/refresh pair returned by the
// authenticate endpoint.
func (auth *Auth) GenerateTokenPair(account *Account) (access string, refresh string, err error) {
	access, err = auth.generateToken(account, TokenTypeAccess, auth.accessTokenTTL)
	if err != nil {
		return "", "", err
	}

	refresh, err = auth.generateToken(account, TokenTypeRefresh, auth.refreshTokenTTL)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// GenerateAccessToken mints a fresh access token for the refresh endpoint.
func (auth *Auth) GenerateAccessToken(account *Account) (string, error) {
	return auth.generateToken(account, TokenTypeAccess, auth.accessTokenTTL)
}

func (auth *Auth) generateToken(account *Account, tokenType string, ttl time.Duration) (string, error) {
	expireAt := time.Now().Add(ttl)
	claim := AccountClaim{
		AccountID: account.ID,
		Username:  account.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Username,
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)
	signedString, err := token.SignedString(auth.secret)
	if err != nil {
		return "", xerrors.New(err)
	}

	return signedString, nil
}

// Authenticate verifies an access token and returns its claims.
func (auth *Auth) Authenticate(tokenString string) (*AccountClaim, error) {
	return auth.verifyToken(tokenString, TokenTypeAccess)
}

// VerifyRefreshToken verifies a refresh token and returns its claims. An
// access token is not accepted here, and vice versa.
func (auth *Auth) VerifyRefreshToken(tokenString string) (*AccountClaim, error) {
	return auth.verifyToken(tokenString, TokenTypeRefresh)
}

func (auth *Auth) verifyToken(tokenString string, expectedType string) (*AccountClaim, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &AccountClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.New("unexpected signing method")
		}
		return auth.secret, nil
	})

	if err != nil {
		return nil, xerrors.New(err)
	}

	if !parsedToken.Valid {
		return nil, xerrors.New(InvalidToken)
	}

	claim, ok := parsedToken.Claims.(*AccountClaim)
	if !ok {
		return nil, xerrors.New("could not parse claims")
	}

	if claim.TokenType != expectedType {
		return nil, xerrors.New(InvalidToken)
	}

	return claim, nil
}

func (auth *Auth) GetAuthenticatedAccount(r *http.Request) (*Account, error) {
	account, ok := web.GetValueFromContext[*Account](r, AccountCtxKey)
	if !ok {
		return nil, NotAuthenticatedAccount
	}

	return account, nil
}

func (auth *Auth) SetAuthenticatedAccount(r *http.Request, account *Account) *http.Request {
	return web.AddValueToContext(r, AccountCtxKey, account)
}

func (auth *Auth) IsAccountAuthenticated(r *http.Request) bool {
	_, err := auth.GetAuthenticatedAccount(r)
	return err == nil
}
