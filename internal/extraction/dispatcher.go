package extraction

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/skill-finder/internal/types"
)

// DefaultRemoteTimeout bounds the remote-assisted path (retrieval plus model
// call) so a slow remote call cannot stall the request indefinitely.
const DefaultRemoteTimeout = 20 * time.Second

// Result is a complete extraction outcome for one message.
type Result struct {
	Reply    string
	Mentions []types.SkillMention
}

// Dispatcher is the single entry point for extraction. It chooses between
// the remote-assisted and local paths and guarantees a usable result for any
// message: it never returns an error, and an empty mention list is a valid
// "no skills found" outcome rather than a failure signal.
type Dispatcher struct {
	remote  *RemoteExtractor // nil when remote prerequisites are absent
	timeout time.Duration
}

// NewDispatcher creates a dispatcher. remote may be nil, in which case every
// extraction uses the local path regardless of the caller's preference.
func NewDispatcher(remote *RemoteExtractor, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &Dispatcher{remote: remote, timeout: timeout}
}

// RemoteAvailable reports whether the remote-assisted path is configured.
func (d *Dispatcher) RemoteAvailable() bool {
	return d.remote != nil
}

// Extract analyzes one message. When useRemote is false or no remote
// extractor is configured, the local path runs directly with no network
// attempt. Otherwise the remote path is tried once; on any failure the local
// result silently substitutes for this turn only, with no retry.
func (d *Dispatcher) Extract(ctx context.Context, text string, useRemote bool, history []types.ConversationTurn) Result {
	if useRemote && d.remote != nil {
		remoteCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		reply, mentions, err := d.remote.Extract(remoteCtx, text, history)
		if err == nil {
			return Result{Reply: reply, Mentions: mentions}
		}
		log.Printf("remote extraction failed, falling back to local engine: %v", err)
	}

	mentions := ExtractLocal(text)
	return Result{Reply: FallbackReply(text, mentions), Mentions: mentions}
}
