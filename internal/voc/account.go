package voc

import (
	"context"
	"fmt"
	"strings"

	"github.com/autopeer-io/vocbridge/pkg/log"
)

// DiscoveredVehicle is everything needed to open a vehicle session.
type DiscoveredVehicle struct {
	// URL is the vehicle handle, always ending with "/".
	URL        string
	Attributes VehicleAttributes
	State      VehicleState
}

// DiscoverVehicle walks customeraccounts -> relations -> vehicles and returns
// the first verified vehicle whose VIN matches. An empty vin matches any
// vehicle.
func DiscoverVehicle(ctx context.Context, t Transport, vin string) (*DiscoveredVehicle, error) {
	var user User
	if err := t.Get(ctx, "customeraccounts", &user); err != nil {
		return nil, fmt.Errorf("failed to fetch customer account: %w", err)
	}
	log.Debug("Got customer account", "username", user.Username, "relations", len(user.AccountVehicleRelations))

	for _, relURL := range user.AccountVehicleRelations {
		var rel VehicleRelation
		if err := t.Get(ctx, relURL, &rel); err != nil {
			log.Warn("Skipping unreadable vehicle relation", "relation", relURL, "err", err)
			continue
		}
		if rel.Status != RelationStatusVerified || rel.Vehicle == "" {
			log.Debug("Skipping unverified vehicle relation", "relation", relURL, "status", rel.Status)
			continue
		}

		vehicleURL := strings.TrimSuffix(rel.Vehicle, "/") + "/"

		var attrs VehicleAttributes
		if err := t.Get(ctx, Join(vehicleURL, "attributes"), &attrs); err != nil {
			return nil, fmt.Errorf("failed to fetch vehicle attributes: %w", err)
		}
		if vin != "" && !strings.EqualFold(attrs.VIN, vin) {
			continue
		}

		var state VehicleState
		if err := t.Get(ctx, Join(vehicleURL, "status"), &state); err != nil {
			return nil, fmt.Errorf("failed to fetch vehicle status: %w", err)
		}

		return &DiscoveredVehicle{URL: vehicleURL, Attributes: attrs, State: state}, nil
	}

	if vin == "" {
		return nil, fmt.Errorf("%w: no verified vehicles on account %s", ErrConfiguration, user.Username)
	}
	return nil, fmt.Errorf("%w: no vehicles found matching the VIN %s", ErrConfiguration, vin)
}
