package routes

import (
	"fmt"
	"net/http"
)

// PrivacyPolicyHandler serves the Privacy Policy content
func PrivacyPolicyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Privacy Policy</title>
</head>
<body>
	<h1>Privacy Policy</h1>
	<p>Your profile is reviewed by our moderators before other members can see it. Rejected profiles stay private.</p>
	<p>Members only see your phone number after you accept their invitation, or after they accept yours.</p>
	<p>Photos you upload are stored with our cloud provider and shown only alongside an approved profile.</p>
	<p>Contact us at <a href="mailto:support@vivaah.app">support@vivaah.app</a> to have your profile removed.</p>
</body>
</html>
`
	fmt.Fprint(w, html)
}
