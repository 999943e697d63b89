/*
Package storesdk is a Go client for the Bookstore API and the home of its
JSON wire types, which the server encodes directly.

# Client vs Session

  - Client: unauthenticated operations (signup, login, bootstrap, public
    catalogue reads, health probes)
  - Session: operations carrying a bearer token

Anonymous use:

	client := storesdk.NewClient("http://localhost:8080")

	auth, err := client.Login(ctx, "alice@example.com", "secret")

# Step-up login

Administrators never receive a full token from Login. The response carries
TOTPRequired ("setup" or "verify") and a short-lived TempToken that only
unlocks the matching TOTP route:

	auth, err := client.Login(ctx, email, password)
	if auth.TOTPRequired == storesdk.TOTPSetup {
		pending := client.NewSession(auth.TempToken)
		setup, _ := pending.TOTPSetup(ctx)
		// scan setup.QRCode, then
		auth, err = pending.VerifyTOTPSetup(ctx, setup.Secret, code)
	}
	session := client.NewSession(auth.Token)

# Errors

Every non-2xx response is returned as *APIError:

	var apiErr *storesdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		// duplicate username or email
	}
*/
package storesdk
