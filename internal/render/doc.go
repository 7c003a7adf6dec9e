// Package render turns sampled diffraction fields into terminal plots, PNG
// images and SVG line charts.
package render
