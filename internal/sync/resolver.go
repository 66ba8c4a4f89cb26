package sync

import "time"

// Resolve decides whether remote data should overwrite local data.
//
// The no-conflict check runs before strategy dispatch: when the local record
// has not changed since the last successful sync there is nothing to
// resolve, only a routine refresh, so remote applies regardless of strategy.
// Reversing this order would make local_wins block ordinary refreshes.
func Resolve(strategy Strategy, localUpdatedAt, remoteUpdatedAt time.Time, lastSyncedAt *time.Time) Decision {
	if lastSyncedAt != nil && !localUpdatedAt.After(*lastSyncedAt) {
		return ApplyRemote
	}

	switch strategy {
	case RemoteWins:
		return ApplyRemote
	case LocalWins:
		return KeepLocal
	case NewestWins:
		// Equal timestamps keep local
		if remoteUpdatedAt.After(localUpdatedAt) {
			return ApplyRemote
		}
		return KeepLocal
	default:
		// Unknown strategy: fail open toward the ERP as source of truth
		return ApplyRemote
	}
}
