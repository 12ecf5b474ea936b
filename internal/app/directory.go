package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/huddlechat/huddle/internal/core"
	"github.com/huddlechat/huddle/internal/domain"
)

// Directory maps a transient connection id to the identity the client
// declared for it. The binding is bookkeeping only; membership is keyed
// by connection id, not identity.
type Directory struct {
	mu         sync.RWMutex
	identities map[core.ConnID]domain.Identity
}

func NewDirectory() *Directory {
	return &Directory{identities: make(map[core.ConnID]domain.Identity)}
}

// Bind records the association, silently overwriting any previous one.
// No uniqueness across identities; two connections may declare the same.
func (d *Directory) Bind(id core.ConnID, identity domain.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.identities[id] = identity
	log.Info().Str("module", "app.directory").Str("conn", string(id)).Str("identity", string(identity)).Msg("bound identity")
}

// Unbind removes the association; no-op if absent.
func (d *Directory) Unbind(id core.ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.identities, id)
}

func (d *Directory) Identity(id core.ConnID) (domain.Identity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	identity, ok := d.identities[id]
	return identity, ok
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.identities)
}
