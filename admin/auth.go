package admin

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"paperpaints/common"
	"paperpaints/logs"
	"paperpaints/session"
)

const principalKey = "admin"

// RequireAuth aborts with 401 unless the request carries a valid session.
// In claims mode the principal must still exist in the admins table.
func (a *AdminModule) RequireAuth(c *gin.Context) {
	p, err := a.authenticate(c)
	if err != nil {
		common.Respond(c, err, "Authorization failed")
		return
	}
	c.Set(principalKey, p)
	c.Next()
}

func (a *AdminModule) authenticate(c *gin.Context) (*session.Principal, error) {
	token := session.FromRequest(c)
	if token == "" {
		return nil, common.Unauthorized()
	}
	p, ok := a.issuer.Verify(token)
	if !ok {
		logs.Logger.WithFields(logrus.Fields{
			"reqid": common.RequestIDFrom(c),
			"route": c.FullPath(),
		}).Debug("session rejected")
		return nil, common.Unauthorized()
	}
	if a.digest != nil {
		return p, nil
	}

	if _, err := a.admins.Get(c.Request.Context(), p.ID); err != nil {
		if isNotFound(err) {
			return nil, common.Unauthorized()
		}
		return nil, err
	}
	return p, nil
}

// CurrentAdmin returns the principal RequireAuth stored on the context.
func CurrentAdmin(c *gin.Context) *session.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*session.Principal); ok {
			return p
		}
	}
	return &session.Principal{}
}

func isNotFound(err error) bool { return errors.Is(err, common.ErrNotFound) }

func isConflict(err error) bool { return errors.Is(err, common.ErrConflict) }
