package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/authz"
	"github.com/trezcool/darasa/core/session"
	inmemdb "github.com/trezcool/darasa/storage/inmem"
)

const (
	tokenLifetime   = 12 * time.Hour
	tokenContextKey = "userToken"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	authenticator struct {
		appName   string
		secretKey []byte
		config    middleware.JWTConfig
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return core.ValidateStruct(lr)
}

func newAuthenticator(conf *core.Config) *authenticator {
	secret := []byte(conf.SecretKey)
	return &authenticator{
		appName:   conf.AppName,
		secretKey: secret,
		config: middleware.JWTConfig{
			SigningKey:    secret,
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    tokenContextKey,
			Claims:        new(session.Claims),
		},
	}
}

func (a *authenticator) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(a.config)
}

// UserClaims builds the claims of a user token.
func UserClaims(appName string, usr inmemdb.User) *session.Claims {
	now := time.Now()
	return &session.Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    appName,
			Subject:   strconv.Itoa(usr.ID),
			ExpiresAt: now.Add(tokenLifetime).Unix(),
			IssuedAt:  now.Unix(),
		},
		UserID:    usr.ID,
		Name:      usr.Name,
		Email:     usr.Email,
		Role:      usr.Role,
		SchoolID:  usr.SchoolID,
		TeacherID: usr.TeacherID,
		StudentID: usr.StudentID,
	}
}

func (a *authenticator) token(usr inmemdb.User) (string, error) {
	return session.NewToken(UserClaims(a.appName, usr), a.secretKey)
}

func (a *authenticator) contextClaims(ctx echo.Context) (*session.Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*session.Claims); ok {
			return claims, nil
		}
	}
	return nil, errUnauthorized
}

// contextSession is the session of the authenticated caller.
func contextSession(ctx echo.Context) (session.Session, error) {
	token, ok := ctx.Get(tokenContextKey).(*jwt.Token)
	if !ok {
		return session.Session{}, errUnauthorized
	}
	claims, ok := token.Claims.(*session.Claims)
	if !ok {
		return session.Session{}, errUnauthorized
	}
	sess, err := session.FromClaims(token.Raw, claims)
	if err != nil {
		return session.Session{}, errUnauthorized
	}
	return sess, nil
}

// requireGrant fails unless the caller's role may run action on resource.
func requireGrant(ctx echo.Context, resource authz.Resource, action authz.Action) (session.Session, error) {
	sess, err := contextSession(ctx)
	if err != nil {
		return sess, err
	}
	if !authz.Can(sess.Role, resource, action) {
		return sess, errHttpForbidden
	}
	return sess, nil
}

// ownsSchool reports whether the caller may touch records of schoolID.
func ownsSchool(sess session.Session, schoolID int) bool {
	return sess.Role == authz.RoleSuperAdmin || sess.SchoolID == schoolID
}

func (s *Server) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := s.db.Authenticate(data.Username, data.Password)
	if err != nil {
		if err == inmemdb.ErrBadCredentials {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := s.auth.token(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}
