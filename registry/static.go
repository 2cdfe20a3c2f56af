// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/ava-labs/orchestrator/cup"
	"github.com/ava-labs/orchestrator/ids"
	"github.com/ava-labs/orchestrator/utils/crypto/bls"
	"github.com/ava-labs/orchestrator/utils/formatting"
)

var (
	errNoVersions       = errors.New("registry has no versions")
	errDuplicateVersion = errors.New("duplicate registry version")
	errDuplicateSubnet  = errors.New("duplicate subnet")
	errNoThresholdKey   = errors.New("no threshold public key recorded")
)

// CUPContents are the parameters the unsigned registry catch-up package is
// rebuilt from.
type CUPContents struct {
	Height    uint64         `json:"height"`
	StateHash formattedBytes `json:"stateHash,omitempty"`
	Block     formattedBytes `json:"block,omitempty"`
}

// SubnetRecord is the state of a subnet as of a registry version.
type SubnetRecord struct {
	SubnetID           ids.ID         `json:"subnetID"`
	Nodes              []*NodeRecord  `json:"nodes"`
	ThresholdPublicKey formattedBytes `json:"thresholdPublicKey,omitempty"`
	CUPContents        *CUPContents   `json:"cupContents,omitempty"`

	publicKey *bls.PublicKey
}

// VersionRecord is a snapshot of the registry.
type VersionRecord struct {
	Version uint64          `json:"version"`
	Subnets []*SubnetRecord `json:"subnets"`
}

// StaticConfig is the on-disk format of a static registry.
type StaticConfig struct {
	Versions []*VersionRecord `json:"versions"`
}

// Static is a Directory backed by an immutable set of registry snapshots.
//
// Lookups at a version resolve to the newest snapshot at or below that
// version.
type Static struct {
	// sorted by increasing version
	versions []*staticVersion
}

type staticVersion struct {
	version uint64
	subnets map[ids.ID]*SubnetRecord
}

// LoadStatic reads a StaticConfig from the JSON file at [path].
func LoadStatic(path string) (*Static, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read registry file %q: %w", path, err)
	}
	var config StaticConfig
	if err := json.Unmarshal(b, &config); err != nil {
		return nil, fmt.Errorf("couldn't parse registry file %q: %w", path, err)
	}
	return NewStatic(config)
}

func NewStatic(config StaticConfig) (*Static, error) {
	if len(config.Versions) == 0 {
		return nil, errNoVersions
	}

	s := &Static{
		versions: make([]*staticVersion, 0, len(config.Versions)),
	}
	for _, record := range config.Versions {
		v := &staticVersion{
			version: record.Version,
			subnets: make(map[ids.ID]*SubnetRecord, len(record.Subnets)),
		}
		for _, subnet := range record.Subnets {
			if _, ok := v.subnets[subnet.SubnetID]; ok {
				return nil, fmt.Errorf("%w %s at version %d", errDuplicateSubnet, subnet.SubnetID, record.Version)
			}
			if len(subnet.ThresholdPublicKey) > 0 {
				pk, err := bls.PublicKeyFromCompressedBytes(subnet.ThresholdPublicKey)
				if err != nil {
					return nil, fmt.Errorf("invalid threshold public key of subnet %s at version %d: %w", subnet.SubnetID, record.Version, err)
				}
				subnet.publicKey = pk
			}
			v.subnets[subnet.SubnetID] = subnet
		}
		s.versions = append(s.versions, v)
	}

	slices.SortFunc(s.versions, func(a, b *staticVersion) int {
		return cmp.Compare(a.version, b.version)
	})
	for i := 1; i < len(s.versions); i++ {
		if s.versions[i-1].version == s.versions[i].version {
			return nil, fmt.Errorf("%w %d", errDuplicateVersion, s.versions[i].version)
		}
	}
	return s, nil
}

func (s *Static) GetLatestVersion() uint64 {
	return s.versions[len(s.versions)-1].version
}

func (s *Static) GetSubnetPeers(_ context.Context, subnetID ids.ID, version uint64) ([]*NodeRecord, error) {
	subnet, err := s.getSubnet(subnetID, version)
	if err != nil {
		return nil, err
	}
	return slices.Clone(subnet.Nodes), nil
}

func (s *Static) GetRegistryCUP(_ context.Context, version uint64, subnetID ids.ID) (*cup.CatchUpPackage, error) {
	i, err := s.index(version)
	if err != nil {
		return nil, err
	}

	var knownSubnet bool
	for ; i >= 0; i-- {
		v := s.versions[i]
		subnet, ok := v.subnets[subnetID]
		if !ok {
			continue
		}
		knownSubnet = true
		if subnet.CUPContents == nil {
			continue
		}
		contents := subnet.CUPContents
		return cup.New(
			cup.Content{
				Height:          contents.Height,
				RegistryVersion: v.version,
				StateHash:       contents.StateHash,
				Block:           contents.Block,
			},
			nil,
		), nil
	}
	if !knownSubnet {
		return nil, fmt.Errorf("%w %s at version %d", ErrUnknownSubnet, subnetID, version)
	}
	return nil, fmt.Errorf("%w for subnet %s at version %d", ErrNoRegistryCUP, subnetID, version)
}

// GetThresholdPublicKey returns the threshold public key of [subnetID] as of
// [version].
func (s *Static) GetThresholdPublicKey(_ context.Context, subnetID ids.ID, version uint64) (*bls.PublicKey, error) {
	subnet, err := s.getSubnet(subnetID, version)
	if err != nil {
		return nil, err
	}
	if subnet.publicKey == nil {
		return nil, fmt.Errorf("%w for subnet %s at version %d", errNoThresholdKey, subnetID, version)
	}
	return subnet.publicKey, nil
}

func (s *Static) getSubnet(subnetID ids.ID, version uint64) (*SubnetRecord, error) {
	i, err := s.index(version)
	if err != nil {
		return nil, err
	}
	subnet, ok := s.versions[i].subnets[subnetID]
	if !ok {
		return nil, fmt.Errorf("%w %s at version %d", ErrUnknownSubnet, subnetID, version)
	}
	return subnet, nil
}

// index returns the index of the newest snapshot at or below [version].
// Versions newer than the latest snapshot are unknown.
func (s *Static) index(version uint64) (int, error) {
	i, found := slices.BinarySearchFunc(s.versions, version, func(v *staticVersion, target uint64) int {
		return cmp.Compare(v.version, target)
	})
	if found {
		return i, nil
	}
	if i == 0 || i == len(s.versions) {
		return 0, fmt.Errorf("%w %d", ErrUnknownVersion, version)
	}
	return i - 1, nil
}

// formattedBytes is a byte slice that is represented in JSON as a cb58
// string.
type formattedBytes []byte

func (b formattedBytes) MarshalJSON() ([]byte, error) {
	str, err := formatting.EncodeWithChecksum(b)
	if err != nil {
		return nil, err
	}
	return json.Marshal(str)
}

func (b *formattedBytes) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	decoded, err := formatting.Decode(str)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}
