package entity

import (
	"context"
	"errors"
	"net"
	"strings"
)

var (
	// ErrAssetNotRecognized is returned when a query does not mention any known asset.
	ErrAssetNotRecognized = errors.New("asset not recognized")
	// ErrSourceUnavailable wraps every failed price, market or news fetch.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrModelUnavailable is returned when the language model could not produce a narrative.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrConfigurationMissing marks an optional setting that is absent.
	ErrConfigurationMissing = errors.New("configuration missing")
	ErrInvalidAsset         = errors.New("invalid asset identifier")
	ErrMalformedAssetTable  = errors.New("malformed asset table")
	ErrEmptyCompletion      = errors.New("empty completion")
	ErrEmptyQuery           = errors.New("empty query")
	ErrRateLimited          = errors.New("rate limited")
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrUnexpectedStatus     = errors.New("unexpected status")
)

// FailureKind categorises why a data source failed.
type FailureKind string

const (
	FailureTimeout              FailureKind = "timeout"
	FailureRateLimited          FailureKind = "rate_limited"
	FailureHTTPStatus           FailureKind = "http_status"
	FailureMalformedPayload     FailureKind = "malformed_payload"
	FailureNetwork              FailureKind = "network"
	FailureConfigurationMissing FailureKind = "configuration_missing"
	FailureCanceled             FailureKind = "canceled"
	FailureInternal             FailureKind = "internal"
)

// ClassifyFailure maps a fetch error to the failure kind reported to users.
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return FailureInternal
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, context.Canceled):
		return FailureCanceled
	case errors.Is(err, ErrRateLimited):
		return FailureRateLimited
	case errors.Is(err, ErrMalformedPayload):
		return FailureMalformedPayload
	case errors.Is(err, ErrConfigurationMissing):
		return FailureConfigurationMissing
	case errors.Is(err, ErrUnexpectedStatus):
		return FailureHTTPStatus
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTimeout
		}
		return FailureNetwork
	}

	// rate.Limiter.Wait reports a would-exceed-deadline condition as a plain error.
	if strings.Contains(err.Error(), "would exceed context deadline") {
		return FailureTimeout
	}

	return FailureInternal
}
