//
// rsa.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"io"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/garbled/ot/mpint"
	"golang.org/x/crypto/hkdf"
)

// ErrArithmetic is returned when a received protocol value is outside
// the modular range of the transfer's RSA group.
var ErrArithmetic = errors.New("ot: value outside modular range")

// kdfInfo domain-separates the transfer masking keystream.
const kdfInfo = "garbled-ot-mask-v1"

// kdf derives size bytes of masking keystream from the shared
// secret. The secret is encoded as a fixed-width big-endian number of
// secretLen bytes so that both parties derive the same keystream.
func kdf(secret *big.Int, secretLen, size int) ([]byte, error) {
	buf := make([]byte, secretLen)
	secret.FillBytes(buf)

	out := make([]byte, size)
	_, err := io.ReadFull(hkdf.New(sha256.New, buf, nil, []byte(kdfInfo)), out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func xorBytes(a, b []byte) []byte {
	r := make([]byte, len(a))
	for i := range a {
		r[i] = a[i] ^ b[i]
	}
	return r
}

// Sender implements the sender of the RSA-blinded 1-of-2 oblivious
// transfer.
type Sender struct {
	key *rsa.PrivateKey
}

// NewSender creates a new sender with a fresh RSA key of keyBits
// bits.
func NewSender(keyBits int) (*Sender, error) {
	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, err
	}
	return &Sender{
		key: key,
	}, nil
}

// NewSenderFromKey creates a new sender using an existing RSA key.
func NewSenderFromKey(key *rsa.PrivateKey) *Sender {
	return &Sender{
		key: key,
	}
}

// MessageSize returns the modulus size in bytes.
func (s *Sender) MessageSize() int {
	return s.key.PublicKey.Size()
}

// PublicKey returns the sender's public key.
func (s *Sender) PublicKey() *rsa.PublicKey {
	return &s.key.PublicKey
}

// NewTransfer creates a new transfer for the messages m0 and m1. The
// blinding values x0 and x1 are sampled fresh for every transfer.
func (s *Sender) NewTransfer(m0, m1 []byte) (*SenderXfer, error) {
	x0, err := rand.Int(rand.Reader, s.key.PublicKey.N)
	if err != nil {
		return nil, err
	}
	x1, err := rand.Int(rand.Reader, s.key.PublicKey.N)
	if err != nil {
		return nil, err
	}

	return &SenderXfer{
		sender: s,
		m0:     append([]byte(nil), m0...),
		m1:     append([]byte(nil), m1...),
		x0:     x0,
		x1:     x1,
	}, nil
}

// SenderXfer implements the sender side of one transfer.
type SenderXfer struct {
	sender *Sender
	m0     []byte
	m1     []byte
	x0     *big.Int
	x1     *big.Int
	k0     *big.Int
	k1     *big.Int
}

// MessageSize returns the modulus size in bytes.
func (s *SenderXfer) MessageSize() int {
	return s.sender.MessageSize()
}

// RandomMessages returns the blinding values x0 and x1.
func (s *SenderXfer) RandomMessages() ([]byte, []byte) {
	return s.x0.Bytes(), s.x1.Bytes()
}

// ReceiveV processes the receiver's blinded value v. The sender
// unblinds v with both x0 and x1; the candidate matching the
// receiver's choice equals the receiver's secret, the other is
// garbage neither party can relate to it.
func (s *SenderXfer) ReceiveV(data []byte) error {
	n := s.sender.key.PublicKey.N
	d := s.sender.key.D

	v := mpint.FromBytes(data)
	if v.Cmp(n) >= 0 {
		return errors.Wrap(ErrArithmetic, "blinded value")
	}

	s.k0 = mpint.Exp(mpint.Mod(mpint.Sub(v, s.x0), n), d, n)
	s.k1 = mpint.Exp(mpint.Mod(mpint.Sub(v, s.x1), n), d, n)

	return nil
}

// Messages returns the masked messages m0' and m1' where
// mi' = mi XOR KDF(ki).
func (s *SenderXfer) Messages() ([]byte, []byte, error) {
	size := s.MessageSize()

	mask0, err := kdf(s.k0, size, len(s.m0))
	if err != nil {
		return nil, nil, err
	}
	mask1, err := kdf(s.k1, size, len(s.m1))
	if err != nil {
		return nil, nil, err
	}
	return xorBytes(s.m0, mask0), xorBytes(s.m1, mask1), nil
}

// Receiver implements the receiver of the RSA-blinded 1-of-2
// oblivious transfer.
type Receiver struct {
	pub *rsa.PublicKey
}

// NewReceiver creates a new receiver for the sender's public key.
func NewReceiver(pub *rsa.PublicKey) (*Receiver, error) {
	if pub.N == nil || pub.N.Sign() <= 0 || pub.E < 3 {
		return nil, errors.Wrap(ErrArithmetic, "invalid public key")
	}
	return &Receiver{
		pub: pub,
	}, nil
}

// MessageSize returns the modulus size in bytes.
func (r *Receiver) MessageSize() int {
	return r.pub.Size()
}

// NewTransfer creates a new transfer for the choice bit.
func (r *Receiver) NewTransfer(bit int) (*ReceiverXfer, error) {
	return &ReceiverXfer{
		receiver: r,
		bit:      bit,
	}, nil
}

// ReceiverXfer implements the receiver side of one transfer.
type ReceiverXfer struct {
	receiver *Receiver
	bit      int
	k        *big.Int
	v        *big.Int
	mb       []byte
}

// ReceiveRandomMessages processes the sender's blinding values x0 and
// x1 and computes the blinded value v = (xb + k^e) mod n for a fresh
// random k.
func (r *ReceiverXfer) ReceiveRandomMessages(x0, x1 []byte) error {
	pub := r.receiver.pub

	xi0 := mpint.FromBytes(x0)
	xi1 := mpint.FromBytes(x1)
	if xi0.Cmp(pub.N) >= 0 || xi1.Cmp(pub.N) >= 0 {
		return errors.Wrap(ErrArithmetic, "random message")
	}

	k, err := rand.Int(rand.Reader, pub.N)
	if err != nil {
		return err
	}
	r.k = k

	xb := xi0
	if r.bit != 0 {
		xb = xi1
	}

	e := big.NewInt(int64(pub.E))
	r.v = mpint.Mod(mpint.Add(xb, mpint.Exp(r.k, e, pub.N)), pub.N)

	return nil
}

// V returns the receiver's blinded value.
func (r *ReceiverXfer) V() []byte {
	return r.v.Bytes()
}

// ReceiveMessages processes the sender's masked messages. The
// receiver can unmask only the message matching its choice bit: its
// blind k equals the sender's kb, and KDF(k) cancels the mask.
func (r *ReceiverXfer) ReceiveMessages(m0p, m1p []byte, err error) error {
	if err != nil {
		return err
	}
	mbp := m0p
	if r.bit != 0 {
		mbp = m1p
	}
	mask, err := kdf(r.k, r.receiver.MessageSize(), len(mbp))
	if err != nil {
		return err
	}
	r.mb = xorBytes(mbp, mask)

	return nil
}

// Message returns the transferred message and the choice bit.
func (r *ReceiverXfer) Message() (m []byte, bit int) {
	return r.mb, r.bit
}

var (
	_ OT = &RSA{}
)

// RSA implements the OT interface with the RSA-blinded 1-of-2
// oblivious transfer. Each wire label is transferred with a
// four-message exchange: the sender's blinding values, the receiver's
// blinded choice, and the masked messages.
type RSA struct {
	keyBits  int
	key      *rsa.PrivateKey
	io       IO
	sender   *Sender
	receiver *Receiver
}

// NewRSA creates a new RSA OT. InitSender generates a fresh key of
// keyBits bits.
func NewRSA(keyBits int) *RSA {
	return &RSA{
		keyBits: keyBits,
	}
}

// RSAFromKey creates a new RSA OT using an existing private key.
func RSAFromKey(key *rsa.PrivateKey) *RSA {
	return &RSA{
		key: key,
	}
}

// InitSender initializes the OT sender and publishes the public key
// to the receiver.
func (r *RSA) InitSender(io IO) error {
	r.io = io

	if r.key == nil {
		key, err := rsa.GenerateKey(rand.Reader, r.keyBits)
		if err != nil {
			return err
		}
		r.key = key
	}
	r.sender = NewSenderFromKey(r.key)

	pub := r.sender.PublicKey()
	if err := io.SendData(pub.N.Bytes()); err != nil {
		return err
	}
	if err := io.SendUint32(pub.E); err != nil {
		return err
	}
	return io.Flush()
}

// InitReceiver initializes the OT receiver with the sender's public
// key.
func (r *RSA) InitReceiver(io IO) error {
	r.io = io

	n, err := ReceiveBigInt(io)
	if err != nil {
		return err
	}
	e, err := io.ReceiveUint32()
	if err != nil {
		return err
	}
	r.receiver, err = NewReceiver(&rsa.PublicKey{
		N: n,
		E: e,
	})
	return err
}

// Send sends the wire labels with OT.
func (r *RSA) Send(wires []Wire) error {
	if r.sender == nil {
		return errors.New("ot: sender not initialized")
	}
	for i := range wires {
		var b0, b1 LabelData

		xfer, err := r.sender.NewTransfer(wires[i].L0.Bytes(&b0),
			wires[i].L1.Bytes(&b1))
		if err != nil {
			return err
		}

		x0, x1 := xfer.RandomMessages()
		if err := r.io.SendData(x0); err != nil {
			return err
		}
		if err := r.io.SendData(x1); err != nil {
			return err
		}
		if err := r.io.Flush(); err != nil {
			return err
		}

		v, err := r.io.ReceiveData()
		if err != nil {
			return err
		}
		if err := xfer.ReceiveV(v); err != nil {
			return err
		}

		m0p, m1p, err := xfer.Messages()
		if err != nil {
			return err
		}
		if err := r.io.SendData(m0p); err != nil {
			return err
		}
		if err := r.io.SendData(m1p); err != nil {
			return err
		}
		if err := r.io.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Receive receives the wire labels matching the flag values with OT.
func (r *RSA) Receive(flags []bool, result []Label) error {
	if r.receiver == nil {
		return errors.New("ot: receiver not initialized")
	}
	if len(flags) != len(result) {
		return errors.Newf("ot: flags/result length mismatch: %d != %d",
			len(flags), len(result))
	}
	for i := range flags {
		var bit int
		if flags[i] {
			bit = 1
		}
		xfer, err := r.receiver.NewTransfer(bit)
		if err != nil {
			return err
		}

		// The I/O layer owns the receive buffer so the first
		// message of each pair must be copied.
		data, err := r.io.ReceiveData()
		if err != nil {
			return err
		}
		x0 := append([]byte(nil), data...)
		x1, err := r.io.ReceiveData()
		if err != nil {
			return err
		}
		if err := xfer.ReceiveRandomMessages(x0, x1); err != nil {
			return err
		}

		if err := r.io.SendData(xfer.V()); err != nil {
			return err
		}
		if err := r.io.Flush(); err != nil {
			return err
		}

		data, err = r.io.ReceiveData()
		if err != nil {
			return err
		}
		m0p := append([]byte(nil), data...)
		m1p, err := r.io.ReceiveData()
		if err != nil {
			return err
		}
		if err := xfer.ReceiveMessages(m0p, m1p, nil); err != nil {
			return err
		}

		mb, _ := xfer.Message()
		if len(mb) != 16 {
			return errors.Newf("ot: invalid message length %d", len(mb))
		}
		result[i].SetBytes(mb)
	}
	return nil
}
