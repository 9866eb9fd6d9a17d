package httpcache

import "net/url"

// SecretParams are query parameters kept out of cache keys, logs and errors.
var SecretParams = []string{"api_key", "apikey", "token"}

// RedactedURL renders u without secret query parameters and with any
// userinfo password masked.
func RedactedURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	c := *u
	q := c.Query()
	stripped := false
	for _, p := range SecretParams {
		if q.Has(p) {
			q.Del(p)
			stripped = true
		}
	}
	if stripped {
		c.RawQuery = q.Encode()
	}
	return c.Redacted()
}

// RedactError removes secret query parameters from the URL carried by a
// *url.Error. Other errors are returned unchanged.
func RedactError(err error) error {
	ue, ok := err.(*url.Error)
	if !ok {
		return err
	}
	u, perr := url.Parse(ue.URL)
	if perr != nil {
		return &url.Error{Op: ue.Op, URL: "(unparseable url)", Err: ue.Err}
	}
	return &url.Error{Op: ue.Op, URL: RedactedURL(u), Err: ue.Err}
}
