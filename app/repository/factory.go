package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Repositories bundles every repository implementation.
type Repositories struct {
	User         UserRepository
	Wearable     WearableRepository
	Subscription SubscriptionRepository
	ChakraLog    ChakraLogRepository
}

// NewRepositories creates all repositories from one DB handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Wearable:     NewWearableRepository(db),
		Subscription: NewSubscriptionRepository(db),
		ChakraLog:    NewChakraLogRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetWearableRepository returns the wearable repository instance
func (f *Factory) GetWearableRepository() WearableRepository {
	return f.GetRepositories().Wearable
}

// GetSubscriptionRepository returns the subscription repository instance
func (f *Factory) GetSubscriptionRepository() SubscriptionRepository {
	return f.GetRepositories().Subscription
}

// GetChakraLogRepository returns the chakra log repository instance
func (f *Factory) GetChakraLogRepository() ChakraLogRepository {
	return f.GetRepositories().ChakraLog
}
