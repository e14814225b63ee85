// Package productcluster groups batches of product photographs into clusters
// that depict the same physical item, using only pixel-derived signals.
//
// The pipeline: image bytes are decoded and normalized into cached
// FeatureSets (luminance, edge map, color histograms, optional semantic
// labels); every pair of images is scored by five weighted signals fused
// into one similarity score; pairs at or above the configured threshold
// become edges of a similarity graph; connected components become product
// groups, with oversize components split by greedy weakest-edge removal.
// Results support interactive split, merge, remove, create and recluster
// mutations.
//
// Basic usage:
//
//	pc := productcluster.New()
//	result, err := pc.Cluster(ctx, images, model.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, group := range result.Groups() {
//	    fmt.Println(group.ID, group.Images)
//	}
package productcluster
