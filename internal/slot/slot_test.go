/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package slot

import (
    `testing`

    `github.com/stretchr/testify/require`
)

func TestSlot_Make(t *testing.T) {
    iv := Make(Segment { 10, 20 }, Segment { 0, 4 }, Segment { 4, 6 }, Segment { 15, 25 }, Segment { 30, 30 })
    require.Equal(t, Interval { { 0, 6 }, { 10, 25 } }, iv)
    require.Equal(t, "{[0,6) [10,25)}", iv.String())
    require.Equal(t, 21, iv.Span())
    require.Equal(t, Index(0), iv.Begin())
    require.Equal(t, Index(25), iv.End())
    require.Nil(t, Make(Segment { 3, 3 }))
}

func TestSlot_Contains(t *testing.T) {
    iv := Make(Segment { 0, 4 }, Segment { 8, 12 })
    require.True(t, iv.Contains(0))
    require.True(t, iv.Contains(3))
    require.False(t, iv.Contains(4))
    require.False(t, iv.Contains(7))
    require.True(t, iv.Contains(11))
    require.False(t, iv.Contains(12))
    require.Equal(t, 1, iv.Find(9))
    require.Equal(t, -1, iv.Find(-1))
    require.True(t, iv.ContainsSegment(Segment { 8, 12 }))
    require.False(t, iv.ContainsSegment(Segment { 2, 9 }))
}

func TestSlot_Overlaps(t *testing.T) {
    a := Make(Segment { 0, 4 }, Segment { 8, 12 })
    require.False(t, a.Overlaps(Range(4, 8)))
    require.True(t, a.Overlaps(Range(3, 5)))
    require.True(t, a.Overlaps(Make(Segment { 5, 6 }, Segment { 11, 20 })))
    require.False(t, a.Overlaps(nil))
    require.True(t, a.OverlapsSegment(Segment { 7, 9 }))
    require.False(t, a.OverlapsSegment(Segment { 12, 20 }))
}

func TestSlot_Algebra(t *testing.T) {
    a := Make(Segment { 0, 10 }, Segment { 20, 30 })
    b := Make(Segment { 5, 25 })
    require.Equal(t, Interval { { 5, 10 }, { 20, 25 } }, a.Intersect(b))
    require.Equal(t, Interval { { 0, 5 }, { 25, 30 } }, a.Subtract(b))
    require.Equal(t, Interval { { 0, 30 } }, a.Union(b))
    require.Equal(t, Interval { { 22, 28 } }, a.Clip(Segment { 22, 28 }))
    require.Equal(t, Interval { { 0, 2 }, { 4, 10 }, { 20, 30 } }, a.Subtract(Range(2, 4)))
    require.True(t, a.Subtract(a).Empty())
    require.True(t, a.Intersect(b).Union(a.Subtract(b)).Equal(a))
}
