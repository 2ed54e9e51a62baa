package memory

import (
	"fmt"
	"time"

	"pm-assist-be/pkg/askai"
	"pm-assist-be/pkg/askai/coordinator"
	"pm-assist-be/pkg/askai/session"

	"github.com/patrickmn/go-cache"
)

// Surface is one live Ask-AI panel: the session manager plus its request
// coordinator and the toast channel bound to the owning entity, created per
// entity context.
type Surface struct {
	Manager     *session.Manager
	Coordinator *coordinator.Coordinator
	Notifier    askai.Notifier
}

// ManagerRegistry keeps one live Surface per entity context. Entries expire
// after an hour of inactivity, which is how a surface is torn down once the
// panel that owned it is gone.
type ManagerRegistry struct {
	cache *cache.Cache
}

func NewManagerRegistry() *ManagerRegistry {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ManagerRegistry{cache: c}
}

func key(entityType, entityID, contextID string) string {
	return fmt.Sprintf("%s:%s:%s", entityType, entityID, contextID)
}

func (r *ManagerRegistry) Save(entityType, entityID, contextID string, surface *Surface) {
	r.cache.Set(key(entityType, entityID, contextID), surface, cache.DefaultExpiration)
}

func (r *ManagerRegistry) Get(entityType, entityID, contextID string) (*Surface, bool) {
	if x, found := r.cache.Get(key(entityType, entityID, contextID)); found {
		return x.(*Surface), true
	}
	return nil, false
}

func (r *ManagerRegistry) Delete(entityType, entityID, contextID string) {
	r.cache.Delete(key(entityType, entityID, contextID))
}
