package types

import (
	"errors"

	"github.com/hashicorp/go-version"
)

var (
	// ErrUnsupportedProtocol mirrors the teacher's protocol.go sentinel of
	// the same name, generalized from an integer equality check to a
	// semver floor (see CompatibleVersion).
	ErrUnsupportedProtocol = errors.New("protocol version not supported")

	// ErrMalformedEnvelope is returned when an Envelope's Kind doesn't
	// match the payload that's actually populated.
	ErrMalformedEnvelope = errors.New("envelope payload missing for its kind")

	// ErrUnknownKind is returned for a Kind this build doesn't recognize.
	ErrUnknownKind = errors.New("unknown message kind")
)

// Kind discriminates the wire message variants of §4.5.
type Kind string

const (
	KindRequest Kind = "REQUEST"
	KindReply   Kind = "REPLY"
	KindRelease Kind = "RELEASE"
)

// ProtocolVersion is this build's wire protocol version, advertised on
// every outbound envelope.
const ProtocolVersion = "1.0.0"

// MinProtocolVersion is the oldest wire version this build still accepts.
const MinProtocolVersion = "1.0.0"

// RequestMessage is §4.5's REQUEST{sender_id, timestamp}.
type RequestMessage struct {
	SenderID  ParticipantID `json:"sender_id"`
	Timestamp uint64        `json:"timestamp"`
}

// ReplyMessage is §4.5's REPLY{sender_id, timestamp}.
type ReplyMessage struct {
	SenderID  ParticipantID `json:"sender_id"`
	Timestamp uint64        `json:"timestamp"`
}

// ReleaseMessage is §4.5's RELEASE{sender_id, timestamp, block}.
type ReleaseMessage struct {
	SenderID  ParticipantID `json:"sender_id"`
	Timestamp uint64        `json:"timestamp"`
	Block     Block         `json:"block"`
}

// Envelope is the self-describing frame every message travels in: exactly
// one of Request/Reply/Release is populated, selected by Kind. This is Go's
// natural discriminated-union idiom in place of a type-erased map, as §9
// ("Tagged message union") asks for.
type Envelope struct {
	ProtocolVersion string          `json:"protocol_version"`
	Kind            Kind            `json:"kind"`
	Request         *RequestMessage `json:"request,omitempty"`
	Reply           *ReplyMessage   `json:"reply,omitempty"`
	Release         *ReleaseMessage `json:"release,omitempty"`
}

// NewRequestEnvelope wraps a RequestMessage for transmission.
func NewRequestEnvelope(m RequestMessage) Envelope {
	return Envelope{ProtocolVersion: ProtocolVersion, Kind: KindRequest, Request: &m}
}

// NewReplyEnvelope wraps a ReplyMessage for transmission.
func NewReplyEnvelope(m ReplyMessage) Envelope {
	return Envelope{ProtocolVersion: ProtocolVersion, Kind: KindReply, Reply: &m}
}

// NewReleaseEnvelope wraps a ReleaseMessage for transmission.
func NewReleaseEnvelope(m ReleaseMessage) Envelope {
	return Envelope{ProtocolVersion: ProtocolVersion, Kind: KindRelease, Release: &m}
}

// Validate checks that the populated payload matches Kind, rejecting the
// malformed-frame case §7 calls out as fatal for the reader that receives it.
func (e Envelope) Validate() error {
	switch e.Kind {
	case KindRequest:
		if e.Request == nil {
			return ErrMalformedEnvelope
		}
	case KindReply:
		if e.Reply == nil {
			return ErrMalformedEnvelope
		}
	case KindRelease:
		if e.Release == nil {
			return ErrMalformedEnvelope
		}
	default:
		return ErrUnknownKind
	}
	return nil
}

// CompatibleVersion checks a remote peer's advertised protocol version
// against the package-level MinProtocolVersion. Kept for callers with no
// configured floor of their own; CompatibleVersionAgainst is preferred
// wherever a BaseConfiguration is in scope.
func CompatibleVersion(remote string) error {
	return CompatibleVersionAgainst(remote, MinProtocolVersion)
}

// CompatibleVersionAgainst checks a remote peer's advertised protocol
// version against floor, generalizing the teacher's checkRPCHeader (an
// exact ProtocolVersion equality check against a single integer) into a
// semver floor via hashicorp/go-version, so a peer ahead of the minimum but
// behind the latest is still accepted.
func CompatibleVersionAgainst(remote, floor string) error {
	remoteVersion, err := version.NewVersion(remote)
	if err != nil {
		return ErrUnsupportedProtocol
	}
	minVersion, err := version.NewVersion(floor)
	if err != nil {
		return err
	}
	if remoteVersion.LessThan(minVersion) {
		return ErrUnsupportedProtocol
	}
	return nil
}
