package setup

import (
	"github.com/mitchellh/hashstructure/v2"

	"github.com/tlast/vt102/internal/errs"
)

// Profile is a persisted snapshot of a SET-UP Model, identified by a
// structural hash so a host can detect whether a save would be
// redundant before writing it out.
type Profile struct {
	Model *Model
	Hash  uint64
}

// Snapshot hashes model and wraps a deep copy of it in a Profile ready
// to persist; later mutations of model must not reach back into the
// saved profile.
func Snapshot(model *Model) (*Profile, error) {
	h, err := hashstructure.Hash(model, hashstructure.FormatV2, nil)
	if err != nil {
		return nil, errs.New(errs.NotImplemented, "hashing setup model: %v", err)
	}
	saved := *model
	return &Profile{Model: &saved, Hash: h}, nil
}

// Stale reports whether model's current contents no longer match the
// hash this Profile was snapshotted with.
func (p *Profile) Stale(model *Model) (bool, error) {
	h, err := hashstructure.Hash(model, hashstructure.FormatV2, nil)
	if err != nil {
		return false, errs.New(errs.NotImplemented, "hashing setup model: %v", err)
	}
	return h != p.Hash, nil
}

// Restore copies the profile's saved fields onto model in place, so the
// caller's existing *Model pointer (and anything aliasing it) stays
// valid across a restore.
func (p *Profile) Restore(model *Model) {
	*model = *p.Model
}
