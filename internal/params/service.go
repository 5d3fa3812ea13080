package params

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/osse101/prizegrid/internal/domain"
	"github.com/osse101/prizegrid/internal/event"
	"github.com/osse101/prizegrid/internal/logger"
	"github.com/osse101/prizegrid/internal/repository"
)

// Update is a partial parameter change. Nil fields are left untouched.
// The baseline fraction is policy-fixed and cannot be set here.
type Update struct {
	DialFraction       *string        `json:"dial_fraction,omitempty" validate:"omitempty,ratio"`
	RarityWeights      []float64      `json:"rarity_weights,omitempty" validate:"omitempty,len=5,dive,gt=0,lte=10"`
	Weighting          *string        `json:"weighting,omitempty" validate:"omitempty,oneof=weighted uniform"`
	Duplicates         *string        `json:"duplicates,omitempty" validate:"omitempty,oneof=allow deny"`
	AutoCorrect        *bool          `json:"auto_correct,omitempty"`
	AutoTrimTarget     *string        `json:"auto_trim_target,omitempty" validate:"omitempty,ratio"`
	BlendedCapEnabled  *bool          `json:"blended_cap_enabled,omitempty"`
	BlendedCapAbsolute *string        `json:"blended_cap_absolute,omitempty" validate:"omitempty,money"`
	CategoryFloors     map[string]int `json:"category_floors,omitempty" validate:"omitempty,dive,keys,oneof=FLAT KIT BLENDED,endkeys,gte=0"`
}

// Service is the configuration provider for allocation runs.
type Service interface {
	// Get returns the current snapshot. Missing or malformed configuration
	// is reported as domain.ErrConfiguration.
	Get(ctx context.Context) (domain.EconomicParameters, error)

	// ValidateAndSet applies u atomically. On rejection it returns
	// domain.ValidationErrors and nothing is changed.
	ValidateAndSet(ctx context.Context, u Update) (domain.EconomicParameters, error)
}

type service struct {
	repo      repository.Parameters
	baseline  decimal.Decimal
	validate  *validator.Validate
	publisher event.Publisher
	mu        sync.Mutex
}

// Option configures the parameter service.
type Option func(*service)

// WithPublisher announces saved updates on the event bus.
func WithPublisher(p event.Publisher) Option {
	return func(s *service) { s.publisher = p }
}

// NewService creates a parameter service. baseline is the policy-fixed
// spending fraction and overrides whatever is stored.
func NewService(repo repository.Parameters, baseline decimal.Decimal, opts ...Option) Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("ratio", validateRatio)
	_ = v.RegisterValidation("money", validateMoney)

	s := &service{repo: repo, baseline: baseline, validate: v}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Get(ctx context.Context) (domain.EconomicParameters, error) {
	p, err := s.load(ctx)
	if err != nil {
		return domain.EconomicParameters{}, err
	}
	if err := p.Check(); err != nil {
		return domain.EconomicParameters{}, err
	}
	return p, nil
}

func (s *service) load(ctx context.Context) (domain.EconomicParameters, error) {
	stored, err := s.repo.GetParameters(ctx)
	if err != nil {
		return domain.EconomicParameters{}, fmt.Errorf("%w: "+ErrMsgLoadFailed, domain.ErrConfiguration, err)
	}

	var p domain.EconomicParameters
	if stored == nil {
		logger.FromContext(ctx).Debug(LogMsgParametersDefault)
		p = domain.DefaultEconomicParameters()
		p.DialFraction = s.baseline
	} else {
		p = stored.Clone()
	}
	p.BaselineFraction = s.baseline
	return p, nil
}

func (s *service) ValidateAndSet(ctx context.Context, u Update) (domain.EconomicParameters, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return domain.EconomicParameters{}, err
	}

	if errs := s.structErrors(u); len(errs) > 0 {
		log.Warn(LogMsgParametersRejected, "errors", errs.Error())
		return domain.EconomicParameters{}, errs
	}

	next, errs := apply(current, u)
	if len(errs) > 0 {
		log.Warn(LogMsgParametersRejected, "errors", errs.Error())
		return domain.EconomicParameters{}, errs
	}

	if err := s.repo.SaveParameters(ctx, next); err != nil {
		return domain.EconomicParameters{}, fmt.Errorf("%w: "+ErrMsgSaveFailed, domain.ErrPersistence, err)
	}

	log.Info(LogMsgParametersUpdated,
		"dial_fraction", next.DialFraction.String(),
		"weighting_enabled", next.WeightingEnabled,
		"allow_duplicates", next.AllowDuplicates,
		"auto_correct", next.AutoCorrect)

	if s.publisher != nil {
		evt := event.NewParametersUpdatedEvent(event.ParametersUpdatedPayloadV1{
			DialFraction:     next.DialFraction.String(),
			WeightingEnabled: next.WeightingEnabled,
			AllowDuplicates:  next.AllowDuplicates,
			AutoCorrect:      next.AutoCorrect,
		})
		if err := s.publisher.Publish(ctx, evt); err != nil {
			log.Warn(LogMsgPublishFailed, "error", err)
		}
	}
	return next, nil
}

// structErrors runs the tag rules and maps them onto field reasons.
func (s *service) structErrors(u Update) domain.ValidationErrors {
	err := s.validate.Struct(u)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ValidationErrors{{Field: "update", Reason: err.Error()}}
	}

	out := make(domain.ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, domain.FieldError{Field: fieldPath(fe), Reason: reasonFor(fe)})
	}
	return out
}

// fieldPath strips the struct name from the namespace: Update.rarity_weights[2] -> rarity_weights[2].
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "ratio":
		return ReasonRatioFormat
	case "money":
		return ReasonDecimal
	case "len":
		return fmt.Sprintf(ReasonWeightCount, domain.RarityBucketCount)
	case "gt", "lte":
		return ReasonWeightRange
	case "gte":
		return ReasonNonNegative
	case "oneof":
		return fmt.Sprintf(ReasonOneOf, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return ReasonInvalid
	}
}

// apply merges u into a copy of current and checks the cross-field rules.
func apply(current domain.EconomicParameters, u Update) (domain.EconomicParameters, domain.ValidationErrors) {
	next := current.Clone()
	var errs domain.ValidationErrors

	if u.DialFraction != nil {
		dial, _ := ParseRatio(*u.DialFraction)
		switch {
		case !inUnitInterval(dial):
			errs = append(errs, domain.FieldError{Field: "dial_fraction", Reason: ReasonFraction})
		case dial.GreaterThan(next.BaselineFraction):
			errs = append(errs, domain.FieldError{Field: "dial_fraction", Reason: fmt.Sprintf(ReasonDialBaseline, next.BaselineFraction)})
		default:
			next.DialFraction = dial
		}
	}

	if u.AutoTrimTarget != nil {
		target, _ := ParseRatio(*u.AutoTrimTarget)
		if !target.IsPositive() || target.GreaterThan(domain.BandGreenMax) {
			errs = append(errs, domain.FieldError{Field: "auto_trim_target", Reason: fmt.Sprintf(ReasonTrimTarget, domain.BandGreenMax)})
		} else {
			next.AutoTrimTarget = target
		}
	}

	if u.RarityWeights != nil {
		copy(next.RarityWeights[:], u.RarityWeights)
	}
	if u.Weighting != nil {
		next.WeightingEnabled = *u.Weighting == WeightingWeighted
	}
	if u.Duplicates != nil {
		next.AllowDuplicates = *u.Duplicates == DuplicatesAllow
	}
	if u.AutoCorrect != nil {
		next.AutoCorrect = *u.AutoCorrect
	}
	if u.BlendedCapEnabled != nil {
		next.BlendedCapEnabled = *u.BlendedCapEnabled
	}
	if u.BlendedCapAbsolute != nil {
		amount, _ := decimal.NewFromString(strings.TrimSpace(*u.BlendedCapAbsolute))
		if amount.IsNegative() {
			errs = append(errs, domain.FieldError{Field: "blended_cap_absolute", Reason: ReasonNonNegative})
		} else {
			next.BlendedCapAbsolute = amount
		}
	}
	if u.CategoryFloors != nil {
		if next.CategoryFloors == nil {
			next.CategoryFloors = make(map[domain.Category]domain.CategoryFloor, len(u.CategoryFloors))
		}
		for k, v := range u.CategoryFloors {
			next.CategoryFloors[domain.Category(k)] = domain.CategoryFloor{MinPlayers: v}
		}
	}

	if len(errs) > 0 {
		return current, errs
	}
	if err := next.Check(); err != nil {
		return current, domain.ValidationErrors{{Field: "parameters", Reason: err.Error()}}
	}
	return next, nil
}

func validateRatio(fl validator.FieldLevel) bool {
	_, err := ParseRatio(fl.Field().String())
	return err == nil
}

func validateMoney(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	return err == nil
}
