package oauth

import (
	"encoding/base64"
	"net/url"
)

type clientSecretBasicAuthenticator struct {
	clientID     string
	clientSecret string
	scope        string
}

func (p *clientSecretBasicAuthenticator) prepareRequest() (url.Values, map[string]string, error) {
	v := url.Values{
		metaGrantType: []string{grantClientCredentials},
	}

	if p.scope != "" {
		v.Add(metaScope, p.scope)
	}

	credentials := url.QueryEscape(p.clientID) + ":" + url.QueryEscape(p.clientSecret)
	headers := map[string]string{
		hdrAuthorization: "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials)),
	}
	return v, headers, nil
}
