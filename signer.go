package esgo

import (
	"net/http"

	awsauth "github.com/smartystreets/go-aws-auth"
)

// Signer computes authorization headers for an outgoing request. Sign runs
// after every other request-side stage, so implementations observe the final
// method, resolved URL, headers and encoded body.
type Signer interface {
	Sign(req *http.Request) *http.Request
}

// AWSSigner signs requests with AWS Signature Version 4, as required by
// Amazon's managed Elasticsearch service.
type AWSSigner struct {
	credentials awsauth.Credentials
}

// NewAWSSigner creates a SigV4 signer from static credentials.
func NewAWSSigner(accessKeyID, secretAccessKey string) *AWSSigner {
	return &AWSSigner{
		credentials: awsauth.Credentials{
			AccessKeyID:     accessKeyID,
			SecretAccessKey: secretAccessKey,
		},
	}
}

// NewAWSSignerWithToken creates a SigV4 signer for temporary credentials.
func NewAWSSignerWithToken(accessKeyID, secretAccessKey, securityToken string) *AWSSigner {
	return &AWSSigner{
		credentials: awsauth.Credentials{
			AccessKeyID:     accessKeyID,
			SecretAccessKey: secretAccessKey,
			SecurityToken:   securityToken,
		},
	}
}

// Sign injects SigV4 authorization headers into the request.
func (s *AWSSigner) Sign(req *http.Request) *http.Request {
	return awsauth.Sign4(req, s.credentials)
}
