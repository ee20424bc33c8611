// Package cookie builds and verifies HMAC-signed cookies.
//
// The manager never writes to a ResponseWriter: it returns *http.Cookie values
// that the response emitter turns into Set-Cookie lines, so cookies follow the
// same header ordering as the rest of the response.
//
//	mgr, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")}, cookie.WithSecure(true))
//	c, err := mgr.Signed("psfs_session", token, cookie.WithMaxAge(3600))
//	x.State().AddCookie(c)
//
//	token, err := mgr.Verify(r, "psfs_session")
//
// Several secrets may be given for rotation: the first signs, all verify.
package cookie
