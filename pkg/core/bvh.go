package core

import "math"

const (
	bvhNumBuckets  = 12
	bvhMaxLeafSize = 4
)

// bvhNode is one node in the flattened tree. Interior nodes store the
// index of their right child; the left child always follows the node.
type bvhNode struct {
	bounds     AABB
	rightChild int
	firstPrim  int
	primCount  int
}

// BVH is a bounding volume hierarchy over an ordered set of primitives.
// It stores primitive indices; intersection is delegated to callbacks so
// the same structure serves meshes and whole scenes.
type BVH struct {
	nodes []bvhNode
	prims []int
}

// BVHPrimitive exposes the spatial data the builder needs
type BVHPrimitive interface {
	// Bounds returns the bounding box of primitive i
	Bounds(i int) AABB
	// Centroid returns the centroid of primitive i
	Centroid(i int) Vec3
}

// NewBVH builds a hierarchy over count primitives using a surface area
// heuristic with bucketed splits
func NewBVH(primCount int, prims BVHPrimitive) *BVH {
	bvh := &BVH{}
	if primCount == 0 {
		return bvh
	}
	bvh.prims = make([]int, primCount)
	for i := range bvh.prims {
		bvh.prims[i] = i
	}
	bvh.build(0, primCount, prims)
	return bvh
}

// Bounds returns the bounds of the whole hierarchy
func (b *BVH) Bounds() AABB {
	if len(b.nodes) == 0 {
		return EmptyAABB()
	}
	return b.nodes[0].bounds
}

func (b *BVH) build(start, end int, prims BVHPrimitive) int {
	bounds := EmptyAABB()
	centroidBounds := EmptyAABB()
	for i := start; i < end; i++ {
		bounds = bounds.Union(prims.Bounds(b.prims[i]))
		centroidBounds = centroidBounds.ExpandPoint(prims.Centroid(b.prims[i]))
	}

	count := end - start
	nodeIndex := len(b.nodes)

	axis := centroidBounds.LongestAxis()
	extent := centroidBounds.Size().Component(axis)
	if count <= bvhMaxLeafSize || extent < 1e-6 {
		b.nodes = append(b.nodes, bvhNode{bounds: bounds, firstPrim: start, primCount: count})
		return nodeIndex
	}

	// Bucket primitives by centroid along the widest axis and find the
	// cheapest split by the surface area heuristic
	type bucket struct {
		count  int
		bounds AABB
	}
	var buckets [bvhNumBuckets]bucket
	for i := range buckets {
		buckets[i].bounds = EmptyAABB()
	}
	minC := centroidBounds.Min.Component(axis)
	bucketOf := func(i int) int {
		rel := (prims.Centroid(b.prims[i]).Component(axis) - minC) / extent
		idx := int(rel * bvhNumBuckets)
		if idx >= bvhNumBuckets {
			idx = bvhNumBuckets - 1
		}
		if idx < 0 {
			idx = 0
		}
		return idx
	}
	for i := start; i < end; i++ {
		bk := bucketOf(i)
		buckets[bk].count++
		buckets[bk].bounds = buckets[bk].bounds.Union(prims.Bounds(b.prims[i]))
	}

	sa := math.Max(bounds.SurfaceArea(), 1e-6)
	bestCost := math.Inf(1)
	bestSplit := -1
	for split := 1; split < bvhNumBuckets; split++ {
		left := EmptyAABB()
		right := EmptyAABB()
		n0, n1 := 0, 0
		for i := 0; i < split; i++ {
			if buckets[i].count > 0 {
				left = left.Union(buckets[i].bounds)
				n0 += buckets[i].count
			}
		}
		for i := split; i < bvhNumBuckets; i++ {
			if buckets[i].count > 0 {
				right = right.Union(buckets[i].bounds)
				n1 += buckets[i].count
			}
		}
		if n0 == 0 || n1 == 0 {
			continue
		}
		cost := 1 + (float64(n0)*left.SurfaceArea()+float64(n1)*right.SurfaceArea())/sa
		if cost < bestCost {
			bestCost = cost
			bestSplit = split
		}
	}

	if bestSplit < 0 || bestCost >= float64(count) {
		b.nodes = append(b.nodes, bvhNode{bounds: bounds, firstPrim: start, primCount: count})
		return nodeIndex
	}

	// In-place partition around the chosen bucket boundary
	mid := start
	for i := start; i < end; i++ {
		if bucketOf(i) < bestSplit {
			b.prims[mid], b.prims[i] = b.prims[i], b.prims[mid]
			mid++
		}
	}
	if mid == start || mid == end {
		b.nodes = append(b.nodes, bvhNode{bounds: bounds, firstPrim: start, primCount: count})
		return nodeIndex
	}

	// Reserve the interior node, build children, then patch the right link
	b.nodes = append(b.nodes, bvhNode{bounds: bounds, primCount: 0})
	b.build(start, mid, prims)
	right := b.build(mid, end, prims)
	b.nodes[nodeIndex].rightChild = right
	return nodeIndex
}

// Intersect finds the closest primitive hit within the ray's range.
// The callback returns the hit distance for a single primitive.
func (b *BVH) Intersect(ray Ray, hit func(prim int, ray Ray) (float64, bool)) (int, float64, bool) {
	if len(b.nodes) == 0 {
		return -1, 0, false
	}

	closest := ray.TMax
	closestPrim := -1
	found := false

	stack := make([]int, 0, 64)
	stack = append(stack, 0)
	for len(stack) > 0 {
		nodeIndex := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &b.nodes[nodeIndex]
		if !node.bounds.Hit(ray, ray.TMin, closest) {
			continue
		}
		if node.primCount > 0 {
			clipped := ray
			for i := node.firstPrim; i < node.firstPrim+node.primCount; i++ {
				clipped.TMax = closest
				if t, ok := hit(b.prims[i], clipped); ok && t < closest {
					closest = t
					closestPrim = b.prims[i]
					found = true
				}
			}
			continue
		}
		stack = append(stack, node.rightChild, nodeIndex+1)
	}

	return closestPrim, closest, found
}

// IntersectAny reports whether any primitive is hit within the ray's range
func (b *BVH) IntersectAny(ray Ray, hit func(prim int, ray Ray) (float64, bool)) bool {
	if len(b.nodes) == 0 {
		return false
	}
	stack := make([]int, 0, 64)
	stack = append(stack, 0)
	for len(stack) > 0 {
		nodeIndex := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &b.nodes[nodeIndex]
		if !node.bounds.Hit(ray, ray.TMin, ray.TMax) {
			continue
		}
		if node.primCount > 0 {
			for i := node.firstPrim; i < node.firstPrim+node.primCount; i++ {
				if _, ok := hit(b.prims[i], ray); ok {
					return true
				}
			}
			continue
		}
		stack = append(stack, node.rightChild, nodeIndex+1)
	}
	return false
}
