package registry

import (
	"context"

	"github.com/matzehuels/depwalk/pkg/errors"
)

// Source fetches raw package metadata by name.
//
// A Source performs no caching: the resolver guarantees each distinct
// package name is requested at most once per run. Implementations must be
// safe for concurrent use, because one resolution level fetches many
// packages in parallel.
type Source interface {
	// Fetch returns the metadata document for ref.Name. Failures carry an
	// [errors.Code]: ErrCodeNetwork, ErrCodeNotFound or
	// ErrCodeMalformedMetadata.
	Fetch(ctx context.Context, ref PackageRef) (*Metadata, error)
}

// Outcome classifies a fetch for the resolver's state machine.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeNetworkFailure
	OutcomeMalformed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not found"
	case OutcomeNetworkFailure:
		return "network failure"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of fetching one reference: either a selected
// version record or the error that prevented it.
type Result struct {
	Ref      PackageRef
	Metadata *Metadata
	Record   *VersionRecord
	Err      error
}

// Outcome maps the result's error code onto an [Outcome]. Errors without a
// code (context cancellation, unexpected transport errors) count as
// network failures.
func (r Result) Outcome() Outcome {
	if r.Err == nil {
		return OutcomeOK
	}
	switch errors.GetCode(r.Err) {
	case errors.ErrCodeNotFound:
		return OutcomeNotFound
	case errors.ErrCodeMalformedMetadata:
		return OutcomeMalformed
	default:
		return OutcomeNetworkFailure
	}
}

// Do fetches ref from src and selects the requested version, folding both
// steps into one [Result].
func Do(ctx context.Context, src Source, ref PackageRef) Result {
	res := Result{Ref: ref}
	meta, err := src.Fetch(ctx, ref)
	if err != nil {
		res.Err = err
		return res
	}
	if meta == nil {
		res.Err = errors.MalformedMetadataError(nil, "%s: empty metadata", ref.Name)
		return res
	}
	res.Metadata = meta
	res.Record, res.Err = meta.Select(ref.Version)
	return res
}
