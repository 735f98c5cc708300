package sessions

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/soggypotatoes/shop/app/configs"
)

const (
	SessionCartKey   = "cart_session"
	CartSessionIDKey = "cart_key"
)

var Store = sessions.NewCookieStore([]byte(configs.LoadENV.SessionKey))

func init() {
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
}

// GetCartSessionKey returns the browser's cart session key, minting one
// on first use. The key identifies an anonymous cart row.
func GetCartSessionKey(w http.ResponseWriter, r *http.Request) (string, error) {
	session, err := Store.Get(r, SessionCartKey)
	if err != nil {
		return "", err
	}

	if key, ok := session.Values[CartSessionIDKey].(string); ok && key != "" {
		return key, nil
	}

	newKey := uuid.New().String()
	session.Values[CartSessionIDKey] = newKey
	if err := session.Save(r, w); err != nil {
		return "", err
	}

	return newKey, nil
}
