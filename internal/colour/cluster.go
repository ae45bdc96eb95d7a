package colour

import (
	"slices"
)

const (
	// DefaultClusterDistance is the merge threshold used when none is given.
	DefaultClusterDistance = 30.0

	// ThemeClusterDistance is the merge threshold used for theme extraction.
	ThemeClusterDistance = 40.0
)

// Cluster groups samples that lie close to a founding colour.
//
// Membership is decided against Representative, which never moves: a cluster
// can therefore drift, since later samples are not compared with the running
// centroid. Average is only meaningful after ClusterSamples returns.
type Cluster struct {
	Representative RGB
	Members        []ColourSample
	TotalCount     int
	Average        RGB
}

// add appends a sample to the cluster.
func (c *Cluster) add(s ColourSample) {
	c.Members = append(c.Members, s)
	c.TotalCount += s.Count
}

// computeAverage sets Average to the count-weighted mean of the members,
// truncating each channel. Sums are accumulated as integers in member order.
func (c *Cluster) computeAverage() {
	if c.TotalCount == 0 {
		c.Average = c.Representative
		return
	}

	var sumR, sumG, sumB int64
	for _, m := range c.Members {
		n := int64(m.Count)
		sumR += n * int64(m.Colour.R)
		sumG += n * int64(m.Colour.G)
		sumB += n * int64(m.Colour.B)
	}

	total := int64(c.TotalCount)
	c.Average = RGB{
		R: uint8(sumR / total),
		G: uint8(sumG / total),
		B: uint8(sumB / total),
	}
}

// ClusterSamples groups samples greedily in their given order.
//
// Each sample joins the first existing cluster (in creation order) whose
// representative lies strictly closer than minDistance; otherwise it founds a
// new cluster. Clusters are then stably sorted by total count, largest first,
// and each cluster's Average is computed.
func ClusterSamples(samples []ColourSample, minDistance float64) []*Cluster {
	if len(samples) == 0 {
		return nil
	}

	var clusters []*Cluster
	for _, s := range samples {
		placed := false
		for _, c := range clusters {
			if Distance(s.Colour, c.Representative) < minDistance {
				c.add(s)
				placed = true
				break
			}
		}
		if !placed {
			c := &Cluster{Representative: s.Colour}
			c.add(s)
			clusters = append(clusters, c)
		}
	}

	slices.SortStableFunc(clusters, func(a, b *Cluster) int {
		return b.TotalCount - a.TotalCount
	})

	for _, c := range clusters {
		c.computeAverage()
	}

	return clusters
}
