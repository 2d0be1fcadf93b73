package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"roti/internal/cache"
	"roti/internal/models"
	"roti/internal/pricing"
	"roti/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ConfigurationOption is one selectable size of a product.
type ConfigurationOption struct {
	SizeID          string          `json:"size_id"`
	Name            string          `json:"name"`
	PersonCapacity  int             `json:"person_capacity"`
	AdditionalPrice decimal.Decimal `json:"additional_price"`
	IsDefault       bool            `json:"is_default"`
	Label           string          `json:"label"`
}

// ProductConfiguration is what the storefront needs to configure a product:
// the product, its sizes and the initial selection. Values handed out by
// ConfigurationService are shared and must not be modified.
type ProductConfiguration struct {
	Product   models.Product        `json:"product"`
	Options   []ConfigurationOption `json:"options"`
	Selection pricing.Selection     `json:"selection"`

	inputs pricing.Inputs
}

// ConfigurationInvalidator drops cached product configurations.
type ConfigurationInvalidator interface {
	Invalidate(productID string)
	InvalidateAll()
}

// ConfigurationService serves product configurations from a read-through
// cache and prices size selections against them.
type ConfigurationService struct {
	products  repositories.ProductRepository
	options   repositories.ProductSizeRepository
	cache     *cache.Cache[*ProductConfiguration]
	publisher EventPublisher
	logger    *zap.Logger
	timeout   time.Duration
}

// NewConfigurationService creates a new ConfigurationService. publisher may
// be nil when messaging is disabled.
func NewConfigurationService(
	products repositories.ProductRepository,
	options repositories.ProductSizeRepository,
	publisher EventPublisher,
	logger *zap.Logger,
	ttl, timeout time.Duration,
) *ConfigurationService {
	return &ConfigurationService{
		products:  products,
		options:   options,
		cache:     cache.New[*ProductConfiguration](ttl),
		publisher: publisher,
		logger:    logger,
		timeout:   timeout,
	}
}

// GetConfiguration returns the configuration of a product.
func (s *ConfigurationService) GetConfiguration(ctx context.Context, productID string) (*ProductConfiguration, error) {
	return s.cache.Get(ctx, productID, func(ctx context.Context) (*ProductConfiguration, error) {
		return s.load(ctx, productID)
	})
}

// SelectSize prices sizeID for a product. An unknown size yields
// pricing.ErrSelectionNotFound.
func (s *ConfigurationService) SelectSize(ctx context.Context, productID, sizeID string) (pricing.Selection, error) {
	conf, err := s.GetConfiguration(ctx, productID)
	if err != nil {
		return pricing.Selection{}, err
	}
	return pricing.SelectSize(conf.inputs, sizeID)
}

// Invalidate drops the cached configuration of a product here and, through
// the event bus, on every other replica.
func (s *ConfigurationService) Invalidate(productID string) {
	s.cache.Invalidate(productID)
	publishJSON(s.publisher, s.logger, RoutingKeyConfigurationInvalidated, ConfigurationInvalidatedEvent{
		ProductID: productID,
		At:        time.Now(),
	})
}

// InvalidateAll drops every cached configuration, e.g. after a size's
// additional price changed.
func (s *ConfigurationService) InvalidateAll() {
	s.cache.InvalidateAll()
	publishJSON(s.publisher, s.logger, RoutingKeyConfigurationInvalidated, ConfigurationInvalidatedEvent{At: time.Now()})
}

// HandleInvalidationEvent applies an invalidation received from the event
// bus to the local cache only.
func (s *ConfigurationService) HandleInvalidationEvent(body []byte) error {
	var event ConfigurationInvalidatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode invalidation event: %w", err)
	}
	if event.ProductID == "" {
		s.cache.InvalidateAll()
	} else {
		s.cache.Invalidate(event.ProductID)
	}
	return nil
}

func (s *ConfigurationService) load(ctx context.Context, productID string) (*ProductConfiguration, error) {
	product, err := withRetry(ctx, s.timeout, func(ctx context.Context) (*models.Product, error) {
		return s.products.GetByID(ctx, productID)
	})
	if err != nil {
		return nil, translate(err, repositories.ErrNotFound, ErrProductNotFound)
	}
	options, err := withRetry(ctx, s.timeout, func(ctx context.Context) ([]models.ProductSize, error) {
		return s.options.ListByProduct(ctx, productID)
	})
	if err != nil {
		return nil, err
	}

	in := pricing.InputsFor(product, options)
	selection := pricing.ResolveInitialSelection(in)
	if selection.DefaultMissing {
		s.logger.Warn("Product has sizes but no default, selecting the first one",
			zap.String("product_id", productID),
			zap.Stringp("size_id", selection.SizeID))
	}

	conf := &ProductConfiguration{
		Product:   *product,
		Options:   make([]ConfigurationOption, 0, len(options)),
		Selection: selection,
		inputs:    in,
	}
	for _, o := range options {
		conf.Options = append(conf.Options, ConfigurationOption{
			SizeID:          o.SizeID,
			Name:            o.Size.Name,
			PersonCapacity:  o.Size.PersonCapacity,
			AdditionalPrice: o.Size.AdditionalPrice,
			IsDefault:       o.IsDefault,
			Label:           o.Size.Label(),
		})
	}
	return conf, nil
}
