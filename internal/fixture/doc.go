// Package fixture reads and writes the canonical comparison fixture.
//
// A fixture is a small tagged document:
//
//	<molecules>
//	  <molecule name="AMHTAR01" energy="-12.3456" atomCount="2">
//	    <atom type="CR" charge="0.28"/>
//	    <atom type="HC" charge="0"/>
//	  </molecule>
//	</molecules>
//
// The writer is byte-deterministic: fixed element and attribute order,
// two-space indentation, shortest exact decimal floats and NFC-normalized
// names. Fixtures are committed as long-lived baselines, so identical
// records must always produce identical bytes.
package fixture
