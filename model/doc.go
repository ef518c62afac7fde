// Package model defines the geometric types shared across the margin
// cleaning pipeline.
//
// Two coordinate spaces exist. Image space is measured in integer pixels
// with the origin at the top-left of a page rendered at some resolution;
// page space is measured in points (72 per inch) and is resolution
// independent. PixelRect and PointRect keep the two spaces apart at the
// type level, and conversions between them always go through an explicit
// dpi/72 scale factor.
package model
