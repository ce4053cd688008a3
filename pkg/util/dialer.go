package util

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// Dialer - interface for http dialer routing connections through a proxy
type Dialer interface {
	DialContext(ctx context.Context, network string, addr string) (net.Conn, error)
}

type dialer struct {
	proxyAddress string
	userName     string
	password     string
	netDialer    *net.Dialer
	socksDialer  proxy.ContextDialer
}

// NewDialer - creates a new dialer, http and https proxies are tunneled with CONNECT,
// socks5 proxies are dialed with golang.org/x/net/proxy
func NewDialer(proxyURL *url.URL) (Dialer, error) {
	d := &dialer{
		netDialer: &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 50 * time.Second,
		},
	}
	if proxyURL == nil {
		return d, nil
	}

	if strings.HasPrefix(strings.ToLower(proxyURL.Scheme), "socks5") {
		socks, err := proxy.FromURL(proxyURL, d.netDialer)
		if err != nil {
			return nil, fmt.Errorf("could not setup proxy %s: %w", proxyURL.Redacted(), err)
		}
		ctxDialer, ok := socks.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("proxy %s does not support dialing with a context", proxyURL.Redacted())
		}
		d.socksDialer = ctxDialer
		return d, nil
	}

	d.proxyAddress = proxyURL.Host
	if user := proxyURL.User; user != nil {
		d.userName = user.Username()
		d.password, _ = user.Password()
	}
	return d, nil
}

// DialContext - opens the connection to addr, through the proxy when one is set
func (d *dialer) DialContext(ctx context.Context, network string, addr string) (net.Conn, error) {
	if d.socksDialer != nil {
		return d.socksDialer.DialContext(ctx, network, addr)
	}

	targetAddr := addr
	if d.proxyAddress != "" {
		addr = d.proxyAddress
	}
	conn, err := d.netDialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	if d.proxyAddress != "" {
		err = d.proxyConnect(ctx, conn, targetAddr)
		if err != nil {
			conn.Close()
			return nil, err
		}
	}
	return conn, nil
}

func (d *dialer) proxyConnect(ctx context.Context, conn net.Conn, targetAddr string) error {
	req := d.createConnectRequest(ctx, targetAddr)
	if err := req.Write(conn); err != nil {
		return err
	}

	r := bufio.NewReader(conn)
	resp, err := http.ReadResponse(r, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to connect proxy, status : %s", resp.Status)
	}
	return nil
}

func (d *dialer) createConnectRequest(ctx context.Context, targetAddress string) *http.Request {
	req := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: targetAddress},
		Host:   targetAddress,
	}

	if d.userName != "" {
		token := base64.StdEncoding.EncodeToString([]byte(d.userName + ":" + d.password))
		req.Header = map[string][]string{
			"Proxy-Authorization": {"Basic " + token},
		}
	}
	return req.WithContext(ctx)
}
