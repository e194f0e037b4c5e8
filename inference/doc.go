// Package inference implements the three EP sweep drivers of spec §4.6:
// coupled parallel updating, coupled sequential updating, and factorized
// sequential updating, all built on top of the factor/potential/coupled/
// factorized/linalg packages. Configuration follows lvlath's functional-
// options idiom (options.go); ADF initialization and the sweep loops each
// get their own file, grounded line-for-line on
// apbsint.inference.{EPCoupParallelInfDriver,EPCoupSequentialInfDriver,
// EPFactorizedInfDriver} from the retrieved original source.
package inference
