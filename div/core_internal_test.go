package div

import "testing"

// driveCore pushes one division through a raw unsigned core and returns the
// result.
func driveCore(t *testing.T, c divCore, width, n, d uint64) (q, r uint64) {
	t.Helper()

	c.In().Payload = Inputs{Sign: Unsigned, N: n, D: d}
	c.In().Valid = true
	c.Out().Ready = true

	c.Tick()
	c.In().Valid = false

	for i := 0; !c.Out().Valid; i++ {
		if i > int(width)*4+8 {
			t.Fatalf("core did not finish dividing %d/%d", n, d)
		}
		c.Tick()
	}
	out := c.Out().Payload
	c.Tick()
	return out.Q, out.R
}

func TestRestoringCore(t *testing.T) {
	c := &restoringCore{width: 8}
	c.Reset()

	cases := []struct{ n, d, q, r uint64 }{
		{9, 3, 3, 0},
		{7, 3, 2, 1},
		{255, 1, 255, 0},
		{255, 255, 1, 0},
		{0, 5, 0, 0},
		{13, 0, 255, 13},
		{200, 201, 0, 200},
	}
	for _, tc := range cases {
		q, r := driveCore(t, c, 8, tc.n, tc.d)
		if q != tc.q || r != tc.r {
			t.Errorf("%d/%d: got q=%d r=%d, want q=%d r=%d",
				tc.n, tc.d, q, r, tc.q, tc.r)
		}
	}
}

func TestNonRestoringCore(t *testing.T) {
	c := &nonRestoringCore{width: 8}
	c.Reset()

	cases := []struct{ n, d, q, r uint64 }{
		{9, 3, 3, 0},
		{7, 3, 2, 1},
		{255, 1, 255, 0},
		{255, 255, 1, 0},
		{0, 5, 0, 0},
		{13, 0, 255, 13},
		{200, 201, 0, 200},
	}
	for _, tc := range cases {
		q, r := driveCore(t, c, 8, tc.n, tc.d)
		if q != tc.q || r != tc.r {
			t.Errorf("%d/%d: got q=%d r=%d, want q=%d r=%d",
				tc.n, tc.d, q, r, tc.q, tc.r)
		}
	}
}

func TestCoresAtWidth64(t *testing.T) {
	for _, c := range []divCore{
		&restoringCore{width: 64},
		&nonRestoringCore{width: 64},
	} {
		c.Reset()

		allOnes := ^uint64(0)
		cases := []struct{ n, d, q, r uint64 }{
			{allOnes, 1, allOnes, 0},
			{allOnes, allOnes, 1, 0},
			{allOnes, 0, allOnes, allOnes},
			{1 << 63, 3, (1 << 63) / 3, (1 << 63) % 3},
		}
		for _, tc := range cases {
			q, r := driveCore(t, c, 64, tc.n, tc.d)
			if q != tc.q || r != tc.r {
				t.Errorf("%d/%d: got q=%d r=%d, want q=%d r=%d",
					tc.n, tc.d, q, r, tc.q, tc.r)
			}
		}
	}
}
