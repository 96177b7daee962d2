package feeds

import "context"

// FakeSightingFeed returns a canned report or error. Test helper.
type FakeSightingFeed struct {
	Report *SightingReport
	Error  error
}

func (f *FakeSightingFeed) GetSightings(ctx context.Context, zone string) (*SightingReport, error) {
	if f.Error != nil {
		return nil, f.Error
	}
	return f.Report, nil
}

// FakeVesselFeed returns a canned report or error. Test helper.
type FakeVesselFeed struct {
	Report *VesselReport
	Error  error
}

func (f *FakeVesselFeed) GetVesselTracks(ctx context.Context, zone string) (*VesselReport, error) {
	if f.Error != nil {
		return nil, f.Error
	}
	return f.Report, nil
}
