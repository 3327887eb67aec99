package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
)

var (
	ErrBadURL      = errors.New("storage: url must be http or https")
	ErrBlockedHost = errors.New("storage: url resolves to a private address")
)

// Fetcher downloads remote images.  The dialer refuses private,
// loopback, link-local, unspecified and multicast addresses at connect
// time, so redirects and DNS changes are covered too.
type Fetcher struct {
	Client *http.Client
	// AllowPrivate disables the address guard (tests only).
	AllowPrivate bool
}

// NewFetcher returns a Fetcher with a 20s overall timeout.
func NewFetcher() *Fetcher {
	f := &Fetcher{}
	dialer := &net.Dialer{Timeout: 10 * time.Second, Control: f.control}
	f.Client = &http.Client{
		Timeout: 20 * time.Second,
		Transport: &http.Transport{
			Proxy:                 nil,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return ErrBadURL
			}
			return nil
		},
	}
	return f
}

func (f *Fetcher) control(network, address string, _ syscall.RawConn) error {
	if f.AllowPrivate {
		return nil
	}
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || BlockedIP(ip) {
		return ErrBlockedHost
	}
	return nil
}

// BlockedIP reports whether ip must not be fetched from.
func BlockedIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() || ip.IsUnspecified()
}

// Fetch downloads raw and returns at most MaxImageBytes of image data.
func (f *Fetcher) Fetch(ctx context.Context, raw string) ([]byte, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrBadURL
	}
	if !f.AllowPrivate {
		if err := f.checkHost(ctx, u.Hostname()); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, ErrBadURL
	}
	req.Header.Set("Accept", "image/*")
	resp, err := f.Client.Do(req)
	if err != nil {
		if errors.Is(err, ErrBlockedHost) {
			return nil, ErrBlockedHost
		}
		return nil, fmt.Errorf("storage: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storage: fetch: status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !AllowedType(ct) {
		return nil, ErrUnsupportedImage
	}
	if resp.ContentLength > MaxImageBytes {
		return nil, ErrTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("storage: fetch: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// checkHost resolves host up front so obviously private targets fail
// before any connection attempt.
func (f *Fetcher) checkHost(ctx context.Context, host string) error {
	if ip := net.ParseIP(host); ip != nil {
		if BlockedIP(ip) {
			return ErrBlockedHost
		}
		return nil
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil || len(addrs) == 0 {
		return fmt.Errorf("%w: cannot resolve %s", ErrBadURL, host)
	}
	for _, a := range addrs {
		if BlockedIP(a.IP) {
			return ErrBlockedHost
		}
	}
	return nil
}
