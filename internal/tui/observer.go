package tui

import "github.com/mmcdole/reel/internal/browse"

// ChannelObserver adapts browse.Observer to a channel for Bubble Tea.
// The channel holds at most the latest snapshot: a snapshot that has not
// been read yet is replaced, never queued behind.
type ChannelObserver struct {
	ch chan browse.Snapshot
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver() *ChannelObserver {
	return &ChannelObserver{ch: make(chan browse.Snapshot, 1)}
}

// Snapshots returns the receive side of the channel.
func (o *ChannelObserver) Snapshots() <-chan browse.Snapshot {
	return o.ch
}

// OnSnapshot sends the snapshot without blocking, dropping an unread older one.
func (o *ChannelObserver) OnSnapshot(s browse.Snapshot) {
	for {
		select {
		case o.ch <- s:
			return
		default:
		}

		select {
		case old := <-o.ch:
			if old.Version > s.Version {
				s = old
			}
		default:
		}
	}
}
