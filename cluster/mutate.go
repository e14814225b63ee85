package cluster

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/carousel-labs/productcluster/model"
)

// Split moves subset out of the named group into a new group and returns
// both resulting groups, remainder first. The original group keeps its id.
// Unknown group or image ids fail with ErrNotFound; a subset that would
// leave either side empty, or that names an image outside the group, fails
// with ErrInvalidOperation. Both resulting groups carry ManualOverride.
func (r *Result) Split(groupID string, subset []model.ImageID) (kept, moved GroupView, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() { r.observe("split", err) }()

	gr, ok := r.groups[groupID]
	if !ok {
		return GroupView{}, GroupView{}, &ErrNotFound{Kind: "group", ID: groupID}
	}
	if len(subset) == 0 {
		return GroupView{}, GroupView{}, &ErrInvalidOperation{Op: "split", Reason: "subset is empty"}
	}

	movedSet := roaring.New()
	for _, id := range subset {
		n, ok := r.graph.LocalOf(id)
		if !ok {
			return GroupView{}, GroupView{}, &ErrNotFound{Kind: "image", ID: string(id)}
		}
		if !gr.Members.Contains(uint32(n)) {
			return GroupView{}, GroupView{}, &ErrInvalidOperation{
				Op:     "split",
				Reason: fmt.Sprintf("image %q is not a member of group %q", id, groupID),
			}
		}
		movedSet.Add(uint32(n))
	}
	if movedSet.GetCardinality() == gr.Members.GetCardinality() {
		return GroupView{}, GroupView{}, &ErrInvalidOperation{Op: "split", Reason: "subset covers the whole group"}
	}

	gr.Members.AndNot(movedSet)
	gr.Primary = r.primaryOf(gr.Members)
	gr.Confidence = r.confidenceOf(gr.Members)
	gr.ManualOverride = true
	gr.UpdatedAt = r.now()

	next := r.addGroup(localsOf(movedSet), true)
	next.Confidence = r.confidenceOf(next.Members)

	return r.viewOf(gr), r.viewOf(next), nil
}

// Merge unions group b into group a and destroys b's id. Merging asserts
// the two groups depict the same product, so cross-group pairs count as
// score 1.0 edges in the new confidence alongside the prior internal edges.
func (r *Result) Merge(groupA, groupB string) (merged GroupView, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() { r.observe("merge", err) }()

	a, ok := r.groups[groupA]
	if !ok {
		return GroupView{}, &ErrNotFound{Kind: "group", ID: groupA}
	}
	b, ok := r.groups[groupB]
	if !ok {
		return GroupView{}, &ErrNotFound{Kind: "group", ID: groupB}
	}
	if groupA == groupB {
		return GroupView{}, &ErrInvalidOperation{Op: "merge", Reason: "cannot merge a group with itself"}
	}

	var sum float64
	var count int
	for _, members := range []*roaring.Bitmap{a.Members, b.Members} {
		for _, e := range r.graph.InducedEdges(members) {
			sum += e.Score
			count++
		}
	}
	cross := int(a.Members.GetCardinality()) * int(b.Members.GetCardinality())
	sum += float64(cross)
	count += cross

	a.Members.Or(b.Members)
	a.Primary = r.primaryOf(a.Members)
	a.Confidence = sum / float64(count)
	a.ManualOverride = true
	a.UpdatedAt = r.now()
	delete(r.groups, groupB)

	return r.viewOf(a), nil
}

// RemoveImage detaches one image from a group into the ungrouped pool.
// The group is destroyed when its last member leaves; otherwise it stays,
// marked ManualOverride, with primary and confidence recomputed. An image
// that is not (or no longer) a member fails with ErrNotFound.
func (r *Result) RemoveImage(groupID string, imageID model.ImageID) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() { r.observe("remove_image", err) }()

	gr, ok := r.groups[groupID]
	if !ok {
		return &ErrNotFound{Kind: "group", ID: groupID}
	}
	n, ok := r.graph.LocalOf(imageID)
	if !ok || !gr.Members.Contains(uint32(n)) {
		return &ErrNotFound{Kind: "image", ID: string(imageID)}
	}

	gr.Members.Remove(uint32(n))
	r.ungrouped.Add(uint32(n))

	if gr.Members.IsEmpty() {
		delete(r.groups, groupID)
		return nil
	}
	gr.Primary = r.primaryOf(gr.Members)
	gr.Confidence = r.confidenceOf(gr.Members)
	gr.ManualOverride = true
	gr.UpdatedAt = r.now()
	return nil
}

// CreateManualGroup builds a user-defined group from ungrouped images,
// bypassing the similarity threshold. The group carries ManualOverride and
// is exempt from size bounds and future automatic re-splitting.
func (r *Result) CreateManualGroup(imageIDs []model.ImageID) (created GroupView, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() { r.observe("create_manual_group", err) }()

	if len(imageIDs) == 0 {
		return GroupView{}, &ErrInvalidOperation{Op: "create_manual_group", Reason: "no image ids given"}
	}

	members := roaring.New()
	for _, id := range imageIDs {
		n, ok := r.graph.LocalOf(id)
		if !ok {
			return GroupView{}, &ErrNotFound{Kind: "image", ID: string(id)}
		}
		if !r.ungrouped.Contains(uint32(n)) {
			return GroupView{}, &ErrInvalidOperation{
				Op:     "create_manual_group",
				Reason: fmt.Sprintf("image %q is not in the ungrouped pool", id),
			}
		}
		members.Add(uint32(n))
	}

	r.ungrouped.AndNot(members)
	gr := r.addGroup(localsOf(members), true)
	return r.viewOf(gr), nil
}

// Rename sets a group's display name.
func (r *Result) Rename(groupID, name string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() { r.observe("rename", err) }()

	gr, ok := r.groups[groupID]
	if !ok {
		return &ErrNotFound{Kind: "group", ID: groupID}
	}
	gr.Name = name
	gr.UpdatedAt = r.now()
	return nil
}

// Recluster rebuilds the automatic groups at a stricter threshold. Manual
// groups and their members are left untouched; every other image is
// regrouped from scratch. The graph only retains edges at or above the
// threshold it was built with, so loosening is not possible on an existing
// result.
func (r *Result) Recluster(threshold float64) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() { r.observe("recluster", err) }()

	if threshold < r.graph.Threshold() {
		return &ErrInvalidOperation{
			Op: "recluster",
			Reason: fmt.Sprintf("threshold %.3f is below the %.3f the similarity graph was built with",
				threshold, r.graph.Threshold()),
		}
	}

	free := roaring.New()
	free.Or(r.ungrouped)
	for id, gr := range r.groups {
		if gr.ManualOverride {
			continue
		}
		free.Or(gr.Members)
		delete(r.groups, id)
	}

	r.ungrouped = roaring.New()
	r.cfg.Threshold = threshold
	r.autoCluster(localsOf(free), threshold)
	return nil
}

func localsOf(members *roaring.Bitmap) []model.LocalID {
	out := make([]model.LocalID, 0, members.GetCardinality())
	members.Iterate(func(n uint32) bool {
		out = append(out, model.LocalID(n))
		return true
	})
	return out
}
