package memory

import (
	"sync"

	"pet-grooming-manager/internal/domain/appointments"
	"pet-grooming-manager/internal/domain/catalog"
	"pet-grooming-manager/internal/domain/companies"
	"pet-grooming-manager/internal/domain/customers"
	"pet-grooming-manager/internal/domain/notifications"
	"pet-grooming-manager/internal/domain/packages"
	"pet-grooming-manager/internal/domain/pets"
	"pet-grooming-manager/internal/domain/users"
)

// Store guarda todo en memoria (modo dev y tests). Un único mutex cubre todas
// las tablas, así ConsumeUse y Renew son atómicos sin más coordinación.
type Store struct {
	mu sync.RWMutex

	companies     map[string]companies.Company
	users         map[string]users.User
	customers     map[string]customers.Customer
	pets          map[string]pets.Pet
	services      map[string]catalog.GroomingService
	packageTypes  map[string]catalog.PackageType
	packages      map[string]packages.CustomerPackage
	usages        []packages.Usage
	appointments  map[string]appointments.Appointment
	notifications map[string]notifications.Notification
}

func NewStore() *Store {
	return &Store{
		companies:     make(map[string]companies.Company),
		users:         make(map[string]users.User),
		customers:     make(map[string]customers.Customer),
		pets:          make(map[string]pets.Pet),
		services:      make(map[string]catalog.GroomingService),
		packageTypes:  make(map[string]catalog.PackageType),
		packages:      make(map[string]packages.CustomerPackage),
		appointments:  make(map[string]appointments.Appointment),
		notifications: make(map[string]notifications.Notification),
	}
}

func (s *Store) Companies() companies.Repository { return companyRepo{s} }
func (s *Store) Onboarding() users.OnboardingRepository { return onboardingRepo{s} }
func (s *Store) Users() users.Repository { return userRepo{s} }
func (s *Store) Customers() customers.Repository { return customerRepo{s} }
func (s *Store) Pets() pets.Repository { return petRepo{s} }
func (s *Store) Services() catalog.ServiceRepository { return serviceRepo{s} }
func (s *Store) PackageTypes() catalog.PackageTypeRepository { return packageTypeRepo{s} }
func (s *Store) Packages() packages.Repository { return packageRepo{s} }
func (s *Store) Appointments() appointments.Repository { return appointmentRepo{s} }
func (s *Store) Notifications() notifications.Repository { return notificationRepo{s} }
func (s *Store) Dashboard() *DashboardRepo { return &DashboardRepo{s} }
