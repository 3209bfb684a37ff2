/*
 * plot.go, part of gomat.
 *
 * Copyright 2024 Rodrigo Molina <rmolina{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 * gomat is developed at the Universidad de Santiago de Chile
 * (USACH).
 *
 */

package hull

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

//ErrNotPlottable is returned by Plot for systems with more than three
//elements, which have no useful 2D projection.
var ErrNotPlottable = errors.New("hull: only binary and ternary systems can be plotted")

var (
	stableColor   = color.RGBA{R: 30, G: 80, B: 200, A: 255}
	unstableColor = color.RGBA{R: 210, G: 60, B: 40, A: 255}
)

//Plot writes a plot of the phase diagram to plotname, whose extension
//selects the image format (.png, .svg, .pdf). Binary systems get a
//formation-energy-vs-composition plot with the hull's lower envelope;
//ternary systems get a barycentric (triangle) projection. Anything else
//returns ErrNotPlottable.
func Plot(pd *PhaseDiagram, title, plotname string) error {
	switch len(pd.Elements()) {
	case 2:
		return plotBinary(pd, title, plotname)
	case 3:
		return plotTernary(pd, title, plotname)
	}
	return ErrNotPlottable
}

func basicHullPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.Add(plotter.NewGrid())
	return p
}

//scatterSplit builds the stable and unstable scatter plotters from
//already-projected 2D points.
func scatterSplit(pts plotter.XYs, distance []float64) (stable, unstable *plotter.Scatter, err error) {
	var spts, upts plotter.XYs
	for i, xy := range pts {
		if distance[i] <= StableTol {
			spts = append(spts, xy)
		} else {
			upts = append(upts, xy)
		}
	}
	if len(spts) > 0 {
		stable, err = plotter.NewScatter(spts)
		if err != nil {
			return nil, nil, err
		}
		stable.GlyphStyle.Shape = draw.PyramidGlyph{}
		stable.GlyphStyle.Color = stableColor
		stable.GlyphStyle.Radius = vg.Points(4)
	}
	if len(upts) > 0 {
		unstable, err = plotter.NewScatter(upts)
		if err != nil {
			return nil, nil, err
		}
		unstable.GlyphStyle.Shape = draw.CircleGlyph{}
		unstable.GlyphStyle.Color = unstableColor
		unstable.GlyphStyle.Radius = vg.Points(3)
	}
	return stable, unstable, nil
}

func plotBinary(pd *PhaseDiagram, title, plotname string) error {
	elems := pd.Elements()
	formation, distance, err := pd.Analyze()
	if err != nil {
		return err
	}
	pts := make(plotter.XYs, len(pd.entries))
	for i, e := range pd.entries {
		pts[i].X = e.Comp.Fraction(elems[1])
		pts[i].Y = formation[i]
	}
	p := basicHullPlot(title)
	p.X.Label.Text = fmt.Sprintf("x(%s) in %s-%s", elems[1], elems[0], elems[1])
	p.Y.Label.Text = "Formation energy (eV/atom)"
	p.X.Min = 0
	p.X.Max = 1
	//The lower envelope goes through the stable entries, sorted by
	//composition. Duplicated compositions on the hull keep only the
	//lowest-energy point, or the line would zigzag.
	type xy struct{ x, y float64 }
	lowest := make(map[float64]float64)
	for i := range pd.entries {
		if distance[i] > StableTol {
			continue
		}
		x := pts[i].X
		if y, ok := lowest[x]; !ok || pts[i].Y < y {
			lowest[x] = pts[i].Y
		}
	}
	envelope := make([]xy, 0, len(lowest))
	for x, y := range lowest {
		envelope = append(envelope, xy{x, y})
	}
	sort.Slice(envelope, func(i, j int) bool { return envelope[i].x < envelope[j].x })
	linepts := make(plotter.XYs, len(envelope))
	for i, v := range envelope {
		linepts[i].X = v.x
		linepts[i].Y = v.y
	}
	line, err := plotter.NewLine(linepts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1)
	line.LineStyle.Color = stableColor
	p.Add(line)
	if err := addScatters(p, pts, distance); err != nil {
		return err
	}
	return p.Save(5*vg.Inch, 4*vg.Inch, plotname)
}

func plotTernary(pd *PhaseDiagram, title, plotname string) error {
	elems := pd.Elements()
	_, distance, err := pd.Analyze()
	if err != nil {
		return err
	}
	h := math.Sqrt(3) / 2
	pts := make(plotter.XYs, len(pd.entries))
	for i, e := range pd.entries {
		f1 := e.Comp.Fraction(elems[1])
		f2 := e.Comp.Fraction(elems[2])
		pts[i].X = f1 + f2/2
		pts[i].Y = f2 * h
	}
	p := basicHullPlot(title)
	p.HideAxes()
	frame, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: h}, {X: 0, Y: 0}})
	if err != nil {
		return err
	}
	frame.LineStyle.Width = vg.Points(1)
	p.Add(frame)
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: -0.03, Y: -0.04}, {X: 1.0, Y: -0.04}, {X: 0.48, Y: h + 0.02}},
		Labels: []string{elems[0], elems[1], elems[2]},
	})
	if err != nil {
		return err
	}
	p.Add(labels)
	if err := addScatters(p, pts, distance); err != nil {
		return err
	}
	return p.Save(5*vg.Inch, 4.5*vg.Inch, plotname)
}

func addScatters(p *plot.Plot, pts plotter.XYs, distance []float64) error {
	stable, unstable, err := scatterSplit(pts, distance)
	if err != nil {
		return err
	}
	if stable != nil {
		p.Add(stable)
		p.Legend.Add("stable", stable)
	}
	if unstable != nil {
		p.Add(unstable)
		p.Legend.Add("above hull", unstable)
	}
	return nil
}
