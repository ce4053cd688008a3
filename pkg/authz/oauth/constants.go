package oauth

// Client authentication methods for the token endpoint
const (
	AuthMethodClientSecretPost  = "client_secret_post"
	AuthMethodClientSecretBasic = "client_secret_basic"
	AuthMethodClientSecretJWT   = "client_secret_jwt"
)

const (
	defaultServerName = "Luminate OAuth server"

	hdrAuthorization = "Authorization"
	hdrContentType   = "Content-Type"

	mimeApplicationFormURLEncoded = "application/x-www-form-urlencoded"

	grantClientCredentials = "client_credentials"

	assertionTypeJWT = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"

	metaGrantType           = "grant_type"
	metaClientID            = "client_id"
	metaClientSecret        = "client_secret"
	metaScope               = "scope"
	metaClientAssertionType = "client_assertion_type"
	metaClientAssertion     = "client_assertion"
)
