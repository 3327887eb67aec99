package router

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/handler"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/repository"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/storage"
)

// Handlers is every handler the API serves.
type Handlers struct {
	Health *handler.HealthHandler
	Auth   *handler.AuthHandler
	Users  *handler.UserHandler

	Trips        *handler.TripHandler
	Itinerary    *handler.TripChildHandler[model.ItineraryStop, *model.ItineraryStop]
	Events       *handler.TripChildHandler[model.Event, *model.Event]
	InfoSections *handler.TripChildHandler[model.TripInfoSection, *model.TripInfoSection]

	Talent          *handler.Resource[model.Talent]
	PartyThemes     *handler.Resource[model.PartyTheme]
	VenueTypes      *handler.Resource[model.VenueType]
	ResortCompanies *handler.Resource[model.ResortCompany]
	CruiseLines     *handler.Resource[model.CruiseLine]
	Amenities       *handler.AmenityHandler
	Venues          *handler.VenueHandler
	Settings        *handler.SettingHandler

	Resorts *handler.PropertyHandler
	Ships   *handler.PropertyHandler

	Images *handler.ImageHandler
	Audit  *handler.AuditHandler
}

// Deps are the collaborators NewHandlers needs beyond the database.
// Store and Mailer may be nil.
type Deps struct {
	Config  config.Config
	Redis   *redis.Client
	Store   storage.Storage
	Fetcher handler.ImageFetcher
	Mailer  handler.ResetMailer
}

// NewHandlers builds repositories over db and the handlers using them.
func NewHandlers(db *gorm.DB, d Deps) *Handlers {
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	talent := repository.NewTalentRepo(db)
	props := repository.NewPropertyRepo(db)
	venues := repository.NewVenueRepo(db)
	lookups := repository.NewLookupRepo(db)

	fetcher := d.Fetcher
	if fetcher == nil {
		fetcher = storage.NewFetcher()
	}

	return &Handlers{
		Health: &handler.HealthHandler{DB: db, Redis: d.Redis},
		Auth:   handler.NewAuthHandler(d.Config, users, tokens, d.Mailer),
		Users:  handler.NewUserHandler(users, tokens, d.Config.BcryptCost),

		Trips:        handler.NewTripHandler(repository.NewTripRepo(db), talent),
		Itinerary:    handler.NewTripChildHandler[model.ItineraryStop, *model.ItineraryStop](repository.NewItineraryRepo(db)),
		Events:       handler.NewTripChildHandler[model.Event, *model.Event](repository.NewEventRepo(db)),
		InfoSections: handler.NewTripChildHandler[model.TripInfoSection, *model.TripInfoSection](repository.NewInfoSectionRepo(db)),

		Talent:          handler.NewResource[model.Talent](talent),
		PartyThemes:     handler.NewResource[model.PartyTheme](repository.NewPartyThemeRepo(db)),
		VenueTypes:      handler.NewResource[model.VenueType](repository.NewVenueTypeRepo(db)),
		ResortCompanies: handler.NewResource[model.ResortCompany](lookups.ResortCompanies),
		CruiseLines:     handler.NewResource[model.CruiseLine](lookups.CruiseLines),
		Amenities:       handler.NewAmenityHandler(repository.NewAmenityRepo(db)),
		Venues:          handler.NewVenueHandler(venues),
		Settings:        handler.NewSettingHandler(repository.NewSettingRepo(db)),

		Resorts: handler.NewPropertyHandler(model.PropertyResort, props, venues),
		Ships:   handler.NewPropertyHandler(model.PropertyShip, props, venues),

		Images: handler.NewImageHandler(d.Store, fetcher),
		Audit:  handler.NewAuditHandler(repository.NewAuditRepo(db)),
	}
}
