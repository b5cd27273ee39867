package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/role"
	"github.com/darasahq/darasa/core/session"
	"github.com/darasahq/darasa/core/user"
)

const claimsContextKey = "userToken"

// Claims represents the authorization claims transmitted via a JWT.
// Role is normalized once at login; SessionID binds the token to a live
// session owned by this client tab.
type Claims struct {
	jwt.StandardClaims
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	SessionID string `json:"sid,omitempty"`
}

func jwtConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    claimsContextKey,
		Claims:        new(Claims),
	}
}

func getUserClaims(conf *core.Config, usr user.User, sess session.Session) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   strconv.Itoa(usr.ID),
			Audience:  "Darasa",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username:  usr.Username,
		Email:     usr.Email,
		Role:      string(usr.Role()),
		SessionID: sess.ID.String(),
	}
}

// generateToken generates a signed JWT token string representing the user Claims.
func generateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(conf.SecretKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(claimsContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextActor(ctx echo.Context) (attendance.Actor, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return attendance.Actor{}, err
	}
	return attendance.Actor{
		Username: claims.Username,
		Email:    claims.Email,
		Role:     role.Role(claims.Role),
	}, nil
}

type authApi struct {
	conf     *core.Config
	svc      *user.Service
	sessions *session.Manager
}

func registerAuthAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc, opts *Options) {
	api := authApi{
		conf:     opts.Conf,
		svc:      opts.UserSvc,
		sessions: opts.Sessions,
	}

	g.POST("/login", api.login)

	ag := g.Group("", jwt, sess)
	ag.POST("/logout", api.logout)
	ag.POST("/session/activity", api.activity)
	ag.POST("/session/visibility", api.visibility)
	ag.GET("/capabilities", api.capabilities)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.svc.GetByUsernameOrEmail(ctx.Request().Context(), data.Username)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "finding user by username or email")
	}
	if err = usr.CheckPassword(data.Password); err != nil {
		return errAuthenticationFailed
	}
	if !usr.IsActive {
		return errAccountDeactivated
	}
	if usr, err = api.svc.SetLastLogin(ctx.Request().Context(), usr); err != nil {
		return errors.Wrap(err, "setting lastLogin")
	}

	sess := api.sessions.Start(usr.ID, usr.Username, usr.Email, usr.Role())
	token, err := generateToken(api.conf, getUserClaims(api.conf, usr, sess))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Role: string(usr.Role())})
}

func (api *authApi) logout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if sid, err := uuid.Parse(claims.SessionID); err == nil {
		api.sessions.Logout(sid)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// activity is an explicit tracked-activity event; the session middleware has
// already touched the session by the time this runs.
func (api *authApi) activity(ctx echo.Context) error {
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) visibility(ctx echo.Context) error {
	var data VisibilityRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VisibilityRequest")
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	sid, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return errUnauthorized
	}

	var alive bool
	if data.Hidden {
		alive = api.sessions.Hide(sid)
	} else {
		alive = api.sessions.Show(sid)
	}
	if !alive {
		return errSessionExpired
	}
	return ctx.NoContent(http.StatusNoContent)
}

// capabilities returns the caller's capability set so the UI renders only
// permitted actions; the server re-checks on every mutation regardless.
func (api *authApi) capabilities(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	r := role.Role(claims.Role)
	return ctx.JSON(http.StatusOK, CapabilitiesResponse{
		Role:         string(r),
		Capabilities: role.CapabilitiesFor(r).List(),
	})
}
