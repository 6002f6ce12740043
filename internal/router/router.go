package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-grooming-manager/docs"
	"pet-grooming-manager/internal/adapters/notify/logonly"
	mem "pet-grooming-manager/internal/adapters/storage/memory"
	pg "pet-grooming-manager/internal/adapters/storage/postgres"
	"pet-grooming-manager/internal/domain/appointments"
	"pet-grooming-manager/internal/domain/catalog"
	"pet-grooming-manager/internal/domain/companies"
	"pet-grooming-manager/internal/domain/customers"
	"pet-grooming-manager/internal/domain/dashboard"
	"pet-grooming-manager/internal/domain/notifications"
	"pet-grooming-manager/internal/domain/packages"
	"pet-grooming-manager/internal/domain/pets"
	"pet-grooming-manager/internal/domain/users"
	"pet-grooming-manager/internal/middleware"
	"pet-grooming-manager/internal/platform/logger"
	"pet-grooming-manager/internal/platform/metrics"
	"pet-grooming-manager/internal/ports/auth"
	"pet-grooming-manager/internal/ports/notify"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Tokens       auth.TokenIssuer  // puede ser nil (login deshabilitado)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: default logonly.
	Notifier notify.Sender
	Logger   logger.Logger

	// Opcional: servicios ya armados (main los comparte con el worker).
	Services *Services
}

// Services agrupa los servicios de dominio ya cableados a sus repos.
type Services struct {
	Companies     *companies.Service
	Users         *users.Service
	Onboarding    *users.Onboarding
	Customers     *customers.Service
	Pets          *pets.Service
	Catalog       *catalog.Service
	Packages      *packages.Service
	Appointments  *appointments.Service
	Notifications *notifications.Service
	Dashboard     *dashboard.Service
}

type repos struct {
	companies     companies.Repository
	onboarding    users.OnboardingRepository
	users         users.Repository
	customers     customers.Repository
	pets          pets.Repository
	services      catalog.ServiceRepository
	packageTypes  catalog.PackageTypeRepository
	packages      packages.Repository
	appointments  appointments.Repository
	notifications notifications.Repository
	dashboard     dashboard.Repository
}

func newRepos(db *sql.DB) repos {
	if db != nil {
		return repos{
			companies:     pg.NewCompaniesRepo(db),
			onboarding:    pg.NewOnboardingRepo(db),
			users:         pg.NewUsersRepo(db),
			customers:     pg.NewCustomersRepo(db),
			pets:          pg.NewPetsRepo(db),
			services:      pg.NewServicesRepo(db),
			packageTypes:  pg.NewPackageTypesRepo(db),
			packages:      pg.NewPackagesRepo(db),
			appointments:  pg.NewAppointmentsRepo(db),
			notifications: pg.NewNotificationsRepo(db),
			dashboard:     pg.NewDashboardRepo(db),
		}
	}

	store := mem.NewStore()
	return repos{
		companies:     store.Companies(),
		onboarding:    store.Onboarding(),
		users:         store.Users(),
		customers:     store.Customers(),
		pets:          store.Pets(),
		services:      store.Services(),
		packageTypes:  store.PackageTypes(),
		packages:      store.Packages(),
		appointments:  store.Appointments(),
		notifications: store.Notifications(),
		dashboard:     store.Dashboard(),
	}
}

// NewServices arma repos y servicios según opts.
func NewServices(opts Options) *Services {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	sender := opts.Notifier
	if sender == nil {
		sender = logonly.NewSender(log)
	}

	rp := newRepos(opts.DB)

	companiesSvc := companies.NewService(rp.companies)
	usersSvc := users.NewService(rp.users, opts.Tokens)
	customersSvc := customers.NewService(rp.customers)
	petsSvc := pets.NewService(rp.pets, customersSvc)
	catalogSvc := catalog.NewService(rp.services, rp.packageTypes)

	return &Services{
		Companies:     companiesSvc,
		Users:         usersSvc,
		Onboarding:    users.NewOnboarding(companiesSvc, usersSvc, rp.onboarding),
		Customers:     customersSvc,
		Pets:          petsSvc,
		Catalog:       catalogSvc,
		Packages:      packages.NewService(rp.packages, catalogSvc, customersSvc, petsSvc),
		Appointments:  appointments.NewService(rp.appointments, petsSvc, catalogSvc),
		Notifications: notifications.NewService(rp.notifications, customersSvc, sender, log),
		Dashboard:     dashboard.NewService(rp.dashboard, log),
	}
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	svcs := opts.Services
	if svcs == nil {
		svcs = NewServices(opts)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(metrics.HTTPMiddleware)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Públicas: alta de empresa y login.
	users.RegisterPublicRoutes(r, svcs.Users, svcs.Onboarding)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		companies.RegisterRoutes(r, svcs.Companies)
		users.RegisterRoutes(r, svcs.Users)
		customers.RegisterRoutes(r, svcs.Customers)
		pets.RegisterRoutes(r, svcs.Pets)
		catalog.RegisterRoutes(r, svcs.Catalog)
		packages.RegisterRoutes(r, svcs.Packages)
		appointments.RegisterRoutes(r, svcs.Appointments)
		notifications.RegisterRoutes(r, svcs.Notifications)
		dashboard.RegisterRoutes(r, svcs.Dashboard)
	})

	return r
}
