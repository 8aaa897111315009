// Package formats reads 3D model files into indexed triangle geometry.
//
// Wavefront OBJ is implemented in obj.go, glTF 2.0 (.gltf and .glb) in
// gltf.go.
package formats
