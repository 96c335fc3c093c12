package ecs

// View2 visits entities that carry both component A and component B,
// iterating the smaller store and probing the larger.
func View2[A, B any](sa *Store[A], sb *Store[B], fn func(Entity, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for e, a := range sa.data {
			if b, ok := sb.data[e]; ok {
				fn(e, a, b)
			}
		}
		return
	}
	for e, b := range sb.data {
		if a, ok := sa.data[e]; ok {
			fn(e, a, b)
		}
	}
}

// View3 visits entities that carry components A, B, and C.
func View3[A, B, C any](sa *Store[A], sb *Store[B], sc *Store[C], fn func(Entity, *A, *B, *C)) {
	View2(sa, sb, func(e Entity, a *A, b *B) {
		if c, ok := sc.data[e]; ok {
			fn(e, a, b, c)
		}
	})
}
