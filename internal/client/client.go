package client

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	adminapi "github.com/charadev96/famlink/api/admin"
	familyapi "github.com/charadev96/famlink/api/family"
	"github.com/charadev96/famlink/internal/client/domain"
)

type Client struct {
	Profiles domain.ProfileRepository
	Logger   *zerolog.Logger

	// UserTrustCertificate is asked before an unknown or changed server key
	// is pinned. A nil func rejects such keys.
	UserTrustCertificate func(*x509.Certificate) bool
}

// Family connects to the family API of profile, authenticating with its token.
func (c *Client) Family(profile domain.Profile) (familyapi.FamilyServiceClient, *grpc.ClientConn, error) {
	if !profile.LoggedIn(time.Now()) {
		return nil, nil, fmt.Errorf("profile %q has no valid token, log in first", profile.Name)
	}
	opts := []grpc.DialOption{
		grpc.WithPerRPCCredentials(bearerToken{
			token:  profile.Token,
			secure: !profile.Insecure,
		}),
	}
	if profile.Insecure {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	} else {
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{
			// The chain is checked against the pinned key instead of a CA.
			InsecureSkipVerify: true,
			VerifyPeerCertificate: func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
				return c.verifyServerCertificate(profile.Name, rawCerts)
			},
		})))
	}
	conn, err := grpc.NewClient(profile.FamilyAddress, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to establish connection: %w", err)
	}
	c.log().Debug().
		Str("address", profile.FamilyAddress).
		Msg("prepared family connection")
	return familyapi.NewFamilyServiceClient(conn), conn, nil
}

// Admin connects to the admin API. It is served on a loopback address
// without transport security.
func (c *Client) Admin(profile domain.Profile) (adminapi.AdminServiceClient, *grpc.ClientConn, error) {
	if profile.AdminAddress == "" {
		return nil, nil, fmt.Errorf("profile %q has no admin address", profile.Name)
	}
	conn, err := grpc.NewClient(profile.AdminAddress,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to establish connection: %w", err)
	}
	return adminapi.NewAdminServiceClient(conn), conn, nil
}

// verifyServerCertificate accepts the self-signed certificate whose key is
// pinned in the profile.
func (c *Client) verifyServerCertificate(name string, rawCerts [][]byte) error {
	profile, err := c.Profiles.Get(name)
	if err != nil {
		return err
	}
	if len(rawCerts) == 0 {
		return errors.New("failed to verify certificate: none presented")
	}

	cert, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("failed to parse certificate: %w", err)
	}
	key, ok := cert.PublicKey.(ed25519.PublicKey)
	if !ok {
		return fmt.Errorf("incorrect certificate public key format (must be ed25519)")
	}

	host, _, err := net.SplitHostPort(profile.FamilyAddress)
	if err != nil {
		return fmt.Errorf("failed to parse server address: %w", err)
	}
	if err = cert.VerifyHostname(host); err != nil {
		return fmt.Errorf("failed to verify certificate hostname: %w", err)
	}

	now := time.Now()
	if now.Before(cert.NotBefore) {
		return fmt.Errorf(
			"certificate not yet valid, current time %s is before %s",
			now.Format(time.RFC3339),
			cert.NotBefore.Format(time.RFC3339),
		)
	}
	if now.After(cert.NotAfter) {
		return fmt.Errorf(
			"certificate expired, current time %s is after %s",
			now.Format(time.RFC3339),
			cert.NotAfter.Format(time.RFC3339),
		)
	}
	if !ed25519.Verify(key, cert.RawTBSCertificate, cert.Signature) {
		return fmt.Errorf("failed to verify certificate: not self-signed")
	}

	if bytes.Equal(profile.ServerKey, key) {
		c.log().Debug().Msg("certificate verified successfully")
		return nil
	}

	if profile.ServerKey == nil {
		c.log().Info().Msg("server key is not pinned yet")
	} else {
		c.log().Warn().Msg("server key differs from the pinned key")
	}
	if c.UserTrustCertificate == nil || !c.UserTrustCertificate(cert) {
		return fmt.Errorf("failed to verify certificate: key not trusted")
	}
	profile.ServerKey = key
	if err = c.Profiles.Set(profile); err != nil {
		return fmt.Errorf("failed to pin server key: %w", err)
	}
	c.log().Info().Msg("pinned server key")
	return nil
}

func (c *Client) log() *zerolog.Logger {
	if c.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return c.Logger
}

type bearerToken struct {
	token  string
	secure bool
}

func (b bearerToken) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + b.token}, nil
}

func (b bearerToken) RequireTransportSecurity() bool {
	return b.secure
}
