package sqlinline

const QInsertProfile = `--sql 19c7d95d-b236-4b3e-93f9-676434f0024e
insert into profiles (id, email, password_hash, plan, display_name, created_at, updated_at)
values (gen_random_uuid(), lower($1::text), $2::text, 'free', $3::text, now(), now())
returning id, plan;
`

const QSelectProfileByEmail = `--sql 6ec6e3a6-edd4-47ab-978e-57849db1affb
select id, password_hash, plan, display_name
from profiles
where email = lower($1::text)
limit 1;
`

const QSelectProfileByID = `--sql b7c8d9d2-ed5d-42da-991d-28cd8d13b6d9
select id, email, plan, display_name, created_at
from profiles
where id = $1::uuid
limit 1;
`

const QSelectPlanByID = `--sql 5e0fb577-f9bd-4612-b818-bd9b0c3b1401
select plan
from profiles
where id = $1::uuid
limit 1;
`

// Operator CLI override, free or pro.
const QUpdatePlanByEmail = `--sql 9d41c2aa-6f0b-4f76-8c3d-2b9e5a17cd40
update profiles
set plan = $2::text, updated_at = now()
where email = lower($1::text);
`

// Skips rows already on pro so the post-payment flip is idempotent.
const QUpdatePlanPro = `--sql 5caf8938-8150-45af-804c-150650e2ec73
update profiles
set plan = 'pro', updated_at = now()
where id = $1::uuid and plan <> 'pro';
`
